package session

import (
	"context"
	"sync"
	"time"

	"github.com/rhuss/authgate/pkg/observability"
)

// ExpiryRegistry wraps a Registry and limits how long its sessions stay
// valid. Expired sessions are masked on lookup but remain in the wrapped
// registry until destroyed.
type ExpiryRegistry struct {
	inner    Registry
	duration time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	created map[string]time.Time
}

var _ Registry = (*ExpiryRegistry)(nil)

// ExpiryOption configures an ExpiryRegistry.
type ExpiryOption func(*ExpiryRegistry)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ExpiryOption {
	return func(r *ExpiryRegistry) {
		r.now = now
	}
}

// NewExpiryRegistry wraps inner with a session lifetime of duration.
// A non-positive duration disables expiry.
func NewExpiryRegistry(inner Registry, duration time.Duration, opts ...ExpiryOption) *ExpiryRegistry {
	r := &ExpiryRegistry{
		inner:    inner,
		duration: duration,
		now:      time.Now,
		created:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Duration returns the configured session lifetime.
func (r *ExpiryRegistry) Duration() time.Duration {
	return r.duration
}

// Now returns the registry's current time.
func (r *ExpiryRegistry) Now() time.Time {
	return r.now()
}

// CreatedAt returns the creation time recorded for sessionID.
func (r *ExpiryRegistry) CreatedAt(sessionID string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.created[sessionID]
	return t, ok
}

// Expired reports whether a session created at createdAt is past this
// registry's lifetime.
func (r *ExpiryRegistry) Expired(createdAt time.Time) bool {
	return expired(createdAt, r.duration, r.now())
}

func (r *ExpiryRegistry) Create(ctx context.Context, userID string) string {
	id := r.inner.Create(ctx, userID)
	if id == "" {
		return ""
	}

	r.mu.Lock()
	r.created[id] = r.now()
	r.mu.Unlock()
	return id
}

func (r *ExpiryRegistry) Lookup(ctx context.Context, sessionID string) string {
	if sessionID == "" {
		return ""
	}

	userID := r.inner.Lookup(ctx, sessionID)
	if userID == "" {
		return ""
	}
	if r.duration <= 0 {
		return userID
	}

	createdAt, ok := r.CreatedAt(sessionID)
	if !ok || r.Expired(createdAt) {
		observability.SessionOperationsTotal.WithLabelValues("expiry", "lookup", "miss").Inc()
		return ""
	}
	return userID
}

// Destroy removes the session from the wrapped registry whether or not it
// has expired, and forgets its timestamp.
func (r *ExpiryRegistry) Destroy(ctx context.Context, sessionID string) bool {
	if !r.inner.Destroy(ctx, sessionID) {
		return false
	}

	r.mu.Lock()
	delete(r.created, sessionID)
	r.mu.Unlock()
	return true
}
