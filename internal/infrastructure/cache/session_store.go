package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	csvimport "github.com/shopadmin/backend/internal/infrastructure/import"
)

// SessionStore keeps import sessions between pipeline steps. Sessions
// are transient working state, so they live here rather than in the
// database, and they expire.
type SessionStore interface {
	// Save stores a session and refreshes its TTL
	Save(ctx context.Context, session *csvimport.ImportSession, ttl time.Duration) error

	// Get retrieves a session by id. Returns shared.ErrNotFound when the
	// session does not exist or has expired.
	Get(ctx context.Context, id uuid.UUID) (*csvimport.ImportSession, error)

	// Delete removes a session
	Delete(ctx context.Context, id uuid.UUID) error

	// Close releases underlying resources
	Close() error
}
