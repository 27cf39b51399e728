package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

var errBoom = errors.New("boom")

// fakeClient is an in-memory client.Client. err, when set, is returned by
// every call.
type fakeClient struct {
	err    error
	user   *models.User
	todos  []models.Todo
	listed int

	lastUpdate models.TodoUpdate
}

func (f *fakeClient) Register(_ context.Context, username, email string, _ []byte) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u1", UserName: username, Email: email}, nil
}

func (f *fakeClient) Login(_ context.Context, email string, _ []byte) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u1", Email: email}, nil
}

func (f *fakeClient) Logout(context.Context) error { return f.err }

func (f *fakeClient) Profile(context.Context) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeClient) ListTodos(context.Context) ([]models.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.listed++
	return append([]models.Todo(nil), f.todos...), nil
}

func (f *fakeClient) CreateTodo(_ context.Context, content string) (*models.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	t := models.Todo{ID: content, Content: content}
	f.todos = append(f.todos, t)
	return &t, nil
}

func (f *fakeClient) GetTodo(_ context.Context, id string) (*models.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.todos {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, client.ErrNotFound
}

func (f *fakeClient) UpdateTodo(_ context.Context, id string, upd models.TodoUpdate) (*models.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastUpdate = upd
	for i := range f.todos {
		if f.todos[i].ID == id {
			if upd.Content != nil {
				f.todos[i].Content = *upd.Content
			}
			if upd.Completed != nil {
				f.todos[i].Completed = *upd.Completed
			}
			t := f.todos[i]
			return &t, nil
		}
	}
	return nil, client.ErrNotFound
}

func (f *fakeClient) DeleteTodo(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return client.ErrNotFound
}

func (f *fakeClient) Ping(context.Context) error { return f.err }
