package revokedtokens

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/dbx"
)

// PostgresRepository keeps revoked tokens in the revoked_tokens table.
// Rows are never pruned.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (token, expires_at)
		VALUES ($1, $2)
	`
	exp := sql.NullTime{Time: expiresAt, Valid: !expiresAt.IsZero()}
	if _, err := r.db.ExecContext(ctx, query, token, exp); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token = $1)`

	var revoked bool
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&revoked); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return revoked, nil
}
