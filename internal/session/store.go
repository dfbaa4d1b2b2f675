// Package session provides MCP session persistence with a SQLite backend
// and an in-memory fallback.
package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is how long a session stays valid.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is one client session.
type Session struct {
	ID        string                 `json:"session_id"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// Store persists sessions. Expired sessions behave as absent.
type Store interface {
	Create(ctx context.Context, data map[string]interface{}) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, data map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open returns a SQLite-backed store, or the in-memory store when the
// database cannot be opened. Session loss on restart is acceptable; an
// unusable server is not.
func Open(dbPath string, ttl time.Duration, logger *zap.Logger) Store {
	store, err := NewSQLiteStore(dbPath, ttl)
	if err != nil {
		logger.Warn("session database unavailable, using in-memory sessions",
			zap.String("path", dbPath), zap.Error(err))
		return NewMemoryStore(ttl)
	}
	return store
}
