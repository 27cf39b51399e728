// Package revokedtokens is the revocation list consulted by every
// authenticated request. Two backends exist: Postgres (entries are kept
// forever) and Redis (entries expire together with the token).
package revokedtokens

import (
	"context"
	"time"
)

type Repository interface {
	// Revoke records token. expiresAt is the token's own expiry; zero when
	// unknown.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
