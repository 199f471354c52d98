package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rhuss/authgate/pkg/debug"
	"github.com/rhuss/authgate/pkg/observability"
)

// MemoryRegistry is the base registry: a process-local map from session
// id to user id. Sessions never expire and are lost on restart.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]string
	newID    func() (string, error)
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]string),
		newID:    GenerateID,
	}
}

func (r *MemoryRegistry) Create(_ context.Context, userID string) string {
	if userID == "" {
		return ""
	}

	id, err := r.newID()
	if err != nil {
		slog.Error("session id generation failed", "error", err)
		return ""
	}

	r.mu.Lock()
	r.sessions[id] = userID
	r.mu.Unlock()

	observability.SessionsActive.Inc()
	observability.SessionOperationsTotal.WithLabelValues("memory", "create", "hit").Inc()
	debug.Log("session", "session created", "session", debug.Redact(id), "user_id", userID)
	return id
}

func (r *MemoryRegistry) Lookup(_ context.Context, sessionID string) string {
	if sessionID == "" {
		return ""
	}

	r.mu.RLock()
	userID := r.sessions[sessionID]
	r.mu.RUnlock()

	observability.SessionOperationsTotal.WithLabelValues("memory", "lookup", observability.Result(userID != "")).Inc()
	return userID
}

func (r *MemoryRegistry) Destroy(_ context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}

	r.mu.Lock()
	_, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	observability.SessionOperationsTotal.WithLabelValues("memory", "destroy", observability.Result(ok)).Inc()
	if ok {
		observability.SessionsActive.Dec()
		debug.Log("session", "session destroyed", "session", debug.Redact(sessionID))
	}
	return ok
}

// Len returns the number of live sessions.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
