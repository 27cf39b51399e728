package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/client/services"
)

// fakeAPI is a minimal in-memory backend behind client.Client.
type fakeAPI struct {
	loggedIn bool
	pingErr  error
	todos    []models.Todo
	nextID   int

	gotPassword string
}

func (f *fakeAPI) Register(_ context.Context, username, email string, password []byte) (*models.User, error) {
	f.gotPassword = string(password)
	f.loggedIn = true
	return &models.User{ID: "u1", UserName: username, Email: email}, nil
}

func (f *fakeAPI) Login(_ context.Context, email string, password []byte) (*models.User, error) {
	f.gotPassword = string(password)
	if string(password) != "secret" {
		return nil, &client.APIError{Status: 400, Message: "Invalid Credentials"}
	}
	f.loggedIn = true
	return &models.User{ID: "u1", UserName: "alice", Email: email, CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func (f *fakeAPI) Logout(context.Context) error {
	if !f.loggedIn {
		return client.ErrUnauthorized
	}
	f.loggedIn = false
	return nil
}

func (f *fakeAPI) Profile(context.Context) (*models.User, error) {
	if !f.loggedIn {
		return nil, client.ErrUnauthorized
	}
	return &models.User{ID: "u1", UserName: "alice", Email: "alice@example.com"}, nil
}

func (f *fakeAPI) ListTodos(context.Context) ([]models.Todo, error) {
	if !f.loggedIn {
		return nil, client.ErrUnauthorized
	}
	return append([]models.Todo(nil), f.todos...), nil
}

func (f *fakeAPI) CreateTodo(_ context.Context, content string) (*models.Todo, error) {
	if !f.loggedIn {
		return nil, client.ErrUnauthorized
	}
	f.nextID++
	t := models.Todo{ID: "id-" + strconv.Itoa(f.nextID), Content: content}
	f.todos = append(f.todos, t)
	return &t, nil
}

func (f *fakeAPI) find(id string) (int, error) {
	if !f.loggedIn {
		return 0, client.ErrUnauthorized
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			return i, nil
		}
	}
	return 0, client.ErrNotFound
}

func (f *fakeAPI) GetTodo(_ context.Context, id string) (*models.Todo, error) {
	i, err := f.find(id)
	if err != nil {
		return nil, err
	}
	t := f.todos[i]
	return &t, nil
}

func (f *fakeAPI) UpdateTodo(_ context.Context, id string, upd models.TodoUpdate) (*models.Todo, error) {
	i, err := f.find(id)
	if err != nil {
		return nil, err
	}
	if upd.Content != nil {
		f.todos[i].Content = *upd.Content
	}
	if upd.Completed != nil {
		f.todos[i].Completed = *upd.Completed
	}
	t := f.todos[i]
	return &t, nil
}

func (f *fakeAPI) DeleteTodo(_ context.Context, id string) error {
	i, err := f.find(id)
	if err != nil {
		return err
	}
	f.todos = append(f.todos[:i], f.todos[i+1:]...)
	return nil
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func newTestApp(api *fakeAPI) *App {
	as := services.NewAuthService(api)
	return &App{
		authService: as,
		todoService: services.NewTodoService(api, as),
		Mode:        ModeOffline,
	}
}
