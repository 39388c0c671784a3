package ports

import (
	"context"
	"time"
)

// SessionStore keeps the server-side half of a session: id → username.
type SessionStore interface {
	Save(ctx context.Context, id, username string, ttl time.Duration) error
	// Lookup returns domain.ErrSessionNotFound for unknown or expired ids.
	Lookup(ctx context.Context, id string) (string, error)
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
}
