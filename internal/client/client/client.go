package client

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

// Client is the API contract the terminal client needs from the backend.
type Client interface {
	Register(ctx context.Context, username, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)

	ListTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, content string) (*models.Todo, error)
	GetTodo(ctx context.Context, id string) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id string, upd models.TodoUpdate) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}
