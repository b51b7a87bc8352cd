package port

import (
	"context"
	"time"
)

// RefreshTokenStore persists opaque refresh tokens keyed by their hash.
// Tokens are single-use; Resolve returns the owning user id.
type RefreshTokenStore interface {
	Save(ctx context.Context, tokenHash string, userID string, ttl time.Duration) error
	Resolve(ctx context.Context, tokenHash string) (string, error)
	Revoke(ctx context.Context, tokenHash string) error
}
