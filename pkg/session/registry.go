package session

import (
	"context"
	"time"
)

// Registry creates, resolves and destroys sessions.
type Registry interface {
	// Create starts a session for userID and returns its id, or "" when
	// userID is empty or no id could be generated.
	Create(ctx context.Context, userID string) string

	// Lookup returns the user id bound to sessionID, or "" when the
	// session is unknown or no longer valid.
	Lookup(ctx context.Context, sessionID string) string

	// Destroy ends the session and reports whether one was removed.
	Destroy(ctx context.Context, sessionID string) bool
}

// Record is the durable form of a session.
type Record struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// expired reports whether a session created at createdAt is past its
// time-to-live at now. A non-positive ttl never expires; a session is
// still valid at exactly createdAt+ttl.
func expired(createdAt time.Time, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && createdAt.Add(ttl).Before(now)
}
