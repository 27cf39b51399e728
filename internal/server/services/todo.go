package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	msgTodoNotFound = "Todo not found"
	msgTodoExists   = "Todo already exists"
)

// TodoService manages the todo list of an authenticated user.
//
// Lookups by id do not check ownership unless enforceOwnership is set; in
// that case foreign todos are reported as not found.
type TodoService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	enforceOwnership bool
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TodoService {
	return &TodoService{
		db:               db,
		repomanager:      m,
		enforceOwnership: cfg.EnforceTodoOwnership,
	}
}

// Create adds a todo for user. Content is trimmed before validation and must
// be unique among the user's todos.
func (s *TodoService) Create(ctx context.Context, user *models.User, req CreateTodoRequest) (*models.Todo, error) {
	if user == nil {
		return nil, common.NewUnauthenticatedError(nil)
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	repo := s.repomanager.Todos(s.db)

	exists, err := repo.ExistsByContent(ctx, user.ID, req.Content)
	if err != nil {
		return nil, common.NewInternalError(fmt.Errorf("error checking todo: %w", err))
	}
	if exists {
		return nil, common.NewConflictError(msgTodoExists)
	}

	todo, err := repo.Create(ctx, &models.Todo{UserID: user.ID, Content: req.Content})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewConflictError(msgTodoExists)
		}
		return nil, common.NewInternalError(fmt.Errorf("error creating todo: %w", err))
	}
	return todo, nil
}

// List returns the user's todos in insertion order; never nil.
func (s *TodoService) List(ctx context.Context, user *models.User) ([]*models.Todo, error) {
	if user == nil {
		return nil, common.NewUnauthenticatedError(nil)
	}
	todos, err := s.repomanager.Todos(s.db).ListByUser(ctx, user.ID)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if todos == nil {
		todos = []*models.Todo{}
	}
	return todos, nil
}

func (s *TodoService) GetOne(ctx context.Context, user *models.User, id string) (*models.Todo, error) {
	return s.find(ctx, user, id)
}

// Update applies the non-nil fields of req. An empty patch returns the todo
// unchanged.
func (s *TodoService) Update(ctx context.Context, user *models.User, id string, req UpdateTodoRequest) (*models.Todo, error) {
	if req.Content != nil {
		trimmed := strings.TrimSpace(*req.Content)
		req.Content = &trimmed
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	todo, err := s.find(ctx, user, id)
	if err != nil {
		return nil, err
	}

	patch := models.TodoPatch{Content: req.Content, Completed: req.Completed}
	if patch.IsEmpty() {
		return todo, nil
	}

	updated, err := s.repomanager.Todos(s.db).Update(ctx, todo.ID, patch)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.NewNotFoundError(msgTodoNotFound)
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, common.NewConflictError(msgTodoExists)
		}
		return nil, common.NewInternalError(fmt.Errorf("error updating todo: %w", err))
	}
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, user *models.User, id string) error {
	todo, err := s.find(ctx, user, id)
	if err != nil {
		return err
	}
	if err := s.repomanager.Todos(s.db).Delete(ctx, todo.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewNotFoundError(msgTodoNotFound)
		}
		return common.NewInternalError(fmt.Errorf("error deleting todo: %w", err))
	}
	return nil
}

// find loads a todo by id. Ids that are not uuids cannot exist and are
// reported as not found without a query.
func (s *TodoService) find(ctx context.Context, user *models.User, id string) (*models.Todo, error) {
	if user == nil {
		return nil, common.NewUnauthenticatedError(nil)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.NewNotFoundError(msgTodoNotFound)
	}

	todo, err := s.repomanager.Todos(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError(msgTodoNotFound)
		}
		return nil, common.NewInternalError(err)
	}
	if s.enforceOwnership && todo.UserID != user.ID {
		return nil, common.NewNotFoundError(msgTodoNotFound)
	}
	return todo, nil
}
