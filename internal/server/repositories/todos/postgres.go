package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

const contentConstraint = "todos_user_id_content_key"

// PostgresRepository stores todos in the todos table. Unique violations on
// (user_id, content) surface as common.ErrorAlreadyExists, missing rows as
// common.ErrorNotFound.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query := `
		INSERT INTO todos (user_id, content, completed)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, todo.UserID, todo.Content, todo.Completed).
		Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, contentConstraint) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *PostgresRepository) ExistsByContent(ctx context.Context, userID, content string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM todos WHERE user_id = $1 AND content = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, content).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// ListByUser returns the user's todos in insertion order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Todo, error) {
	query := `
		SELECT id, user_id, content, completed, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Todo, 0)
	for rows.Next() {
		todo := &models.Todo{}
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Content, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	query := `
		SELECT id, user_id, content, completed, created_at, updated_at
		FROM todos
		WHERE id = $1
	`
	return scanTodo(r.db.QueryRowContext(ctx, query, id))
}

// Update applies the non-nil fields of patch and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	query := `
		UPDATE todos
		SET content = COALESCE($2, content),
		    completed = COALESCE($3, completed),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, content, completed, created_at, updated_at
	`
	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id, patch.Content, patch.Completed))
	if err != nil {
		if dbx.IsUniqueViolation(err, contentConstraint) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, err
	}
	return todo, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM todos
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func scanTodo(row *sql.Row) (*models.Todo, error) {
	todo := &models.Todo{}
	err := row.Scan(&todo.ID, &todo.UserID, &todo.Content, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}
