package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

// TodoService wraps the todo endpoints and keeps the last fetched list.
type TodoService interface {
	List(ctx context.Context) ([]models.Todo, error)
	Cached() []models.Todo
	Create(ctx context.Context, content string) (*models.Todo, error)
	Get(ctx context.Context, id string) (*models.Todo, error)
	SetCompleted(ctx context.Context, id string, completed bool) (*models.Todo, error)
	Rename(ctx context.Context, id, content string) (*models.Todo, error)
	Delete(ctx context.Context, id string) error
	Reset()
}

type todoService struct {
	client client.Client
	auth   AuthService

	mu    sync.RWMutex
	cache []models.Todo
}

// NewTodoService constructs a TodoService. A 401 from any call invalidates
// the session held by auth and clears the cached list.
func NewTodoService(c client.Client, auth AuthService) TodoService {
	return &todoService{client: c, auth: auth}
}

func (s *todoService) List(ctx context.Context) ([]models.Todo, error) {
	todos, err := s.client.ListTodos(ctx)
	if err != nil {
		return nil, s.check(err)
	}
	s.mu.Lock()
	s.cache = todos
	s.mu.Unlock()
	return todos, nil
}

// Cached returns a copy of the last list fetched by List.
func (s *todoService) Cached() []models.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Todo(nil), s.cache...)
}

// Create adds a todo and then refetches the list.
func (s *todoService) Create(ctx context.Context, content string) (*models.Todo, error) {
	t, err := s.client.CreateTodo(ctx, content)
	if err != nil {
		return nil, s.check(err)
	}
	if _, err := s.List(ctx); err != nil {
		return t, err
	}
	return t, nil
}

func (s *todoService) Get(ctx context.Context, id string) (*models.Todo, error) {
	t, err := s.client.GetTodo(ctx, id)
	if err != nil {
		return nil, s.check(err)
	}
	return t, nil
}

func (s *todoService) SetCompleted(ctx context.Context, id string, completed bool) (*models.Todo, error) {
	return s.update(ctx, id, models.TodoUpdate{Completed: &completed})
}

func (s *todoService) Rename(ctx context.Context, id, content string) (*models.Todo, error) {
	return s.update(ctx, id, models.TodoUpdate{Content: &content})
}

func (s *todoService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteTodo(ctx, id); err != nil {
		return s.check(err)
	}
	s.mu.Lock()
	for i, t := range s.cache {
		if t.ID == id {
			s.cache = append(s.cache[:i:i], s.cache[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Reset forgets the cached list.
func (s *todoService) Reset() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

func (s *todoService) update(ctx context.Context, id string, upd models.TodoUpdate) (*models.Todo, error) {
	t, err := s.client.UpdateTodo(ctx, id, upd)
	if err != nil {
		return nil, s.check(err)
	}
	s.mu.Lock()
	for i := range s.cache {
		if s.cache[i].ID == t.ID {
			s.cache[i] = *t
		}
	}
	s.mu.Unlock()
	return t, nil
}

func (s *todoService) check(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		s.Reset()
		if s.auth != nil {
			s.auth.Invalidate()
		}
	}
	return err
}
