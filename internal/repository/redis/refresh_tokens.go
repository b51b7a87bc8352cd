package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joshwanee/hcdc-partnership/internal/core/port"
	"github.com/joshwanee/hcdc-partnership/internal/repository"
)

// RefreshTokenRepository stores hashed refresh tokens in Redis with a TTL
// matching the token lifetime.
type RefreshTokenRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRefreshTokenRepository constructs a repository using the provided Redis client.
func NewRefreshTokenRepository(client *redis.Client, keyPrefix string) *RefreshTokenRepository {
	return &RefreshTokenRepository{client: client, keyPrefix: keyPrefix}
}

// Save associates the token hash with the owning user for the token lifetime.
func (r *RefreshTokenRepository) Save(ctx context.Context, tokenHash string, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(tokenHash), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis set refresh token: %w", err)
	}
	return nil
}

// Resolve returns the user id owning the token hash.
func (r *RefreshTokenRepository) Resolve(ctx context.Context, tokenHash string) (string, error) {
	userID, err := r.client.Get(ctx, r.key(tokenHash)).Result()
	if err == redis.Nil {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get refresh token: %w", err)
	}
	return userID, nil
}

// Revoke removes the token hash. Revoking an unknown token is not an error.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, tokenHash string) error {
	if err := r.client.Del(ctx, r.key(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis del refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) key(tokenHash string) string {
	if r.keyPrefix == "" {
		return tokenHash
	}
	return fmt.Sprintf("%s:%s", r.keyPrefix, tokenHash)
}

var _ port.RefreshTokenStore = (*RefreshTokenRepository)(nil)
