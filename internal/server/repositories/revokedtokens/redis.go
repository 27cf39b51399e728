package revokedtokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "todokeeper:revoked:"

// RedisRepository stores one key per revoked token, hashed so raw tokens
// never reach Redis. Keys expire when the token itself would have expired.
type RedisRepository struct {
	rdb        *redis.Client
	defaultTTL time.Duration
}

// NewRedisRepository builds a Redis-backed revocation list. defaultTTL is
// used when a token's expiry is unknown; it should be the token lifetime.
func NewRedisRepository(rdb *redis.Client, defaultTTL time.Duration) *RedisRepository {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	return &RedisRepository{rdb: rdb, defaultTTL: defaultTTL}
}

func (r *RedisRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := r.defaultTTL
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
	}
	if ttl <= 0 {
		// already unusable, nothing to remember
		return nil
	}

	if err := r.rdb.Set(ctx, keyFor(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, keyFor(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func keyFor(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}
