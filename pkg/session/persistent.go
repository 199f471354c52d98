package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/rhuss/authgate/pkg/debug"
	"github.com/rhuss/authgate/pkg/observability"
)

// DefaultQueryTimeout bounds each RecordStore call.
const DefaultQueryTimeout = 2 * time.Second

// PersistentRegistry mirrors sessions into a RecordStore and answers
// lookups from it, so sessions survive a restart when the store is
// durable. Store failures are logged and read as "no session".
type PersistentRegistry struct {
	inner   *ExpiryRegistry
	store   RecordStore
	timeout time.Duration
}

var _ Registry = (*PersistentRegistry)(nil)

// PersistentOption configures a PersistentRegistry.
type PersistentOption func(*PersistentRegistry)

// WithQueryTimeout sets the per-call RecordStore timeout.
func WithQueryTimeout(d time.Duration) PersistentOption {
	return func(r *PersistentRegistry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewPersistentRegistry wraps inner and persists its sessions to store.
func NewPersistentRegistry(inner *ExpiryRegistry, store RecordStore, opts ...PersistentOption) *PersistentRegistry {
	r := &PersistentRegistry{
		inner:   inner,
		store:   store,
		timeout: DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the backing RecordStore.
func (r *PersistentRegistry) Store() RecordStore {
	return r.store
}

func (r *PersistentRegistry) Create(ctx context.Context, userID string) string {
	id := r.inner.Create(ctx, userID)
	if id == "" {
		return ""
	}

	createdAt, ok := r.inner.CreatedAt(id)
	if !ok {
		createdAt = r.inner.Now()
	}

	rec := Record{SessionID: id, UserID: userID, CreatedAt: createdAt}
	err := r.call(ctx, "save", func(ctx context.Context) error {
		return r.store.Save(ctx, rec)
	})
	if err != nil {
		// The id is still returned; lookups will miss until the store recovers.
		slog.Warn("persisting session failed", "session", debug.Redact(id), "error", err)
	}
	return id
}

func (r *PersistentRegistry) Lookup(ctx context.Context, sessionID string) string {
	if sessionID == "" {
		return ""
	}

	rec, ok := r.find(ctx, sessionID)
	if !ok {
		observability.SessionOperationsTotal.WithLabelValues("persistent", "lookup", "miss").Inc()
		return ""
	}
	if r.inner.Duration() > 0 && r.inner.Expired(rec.CreatedAt) {
		observability.SessionOperationsTotal.WithLabelValues("persistent", "lookup", "miss").Inc()
		return ""
	}

	observability.SessionOperationsTotal.WithLabelValues("persistent", "lookup", "hit").Inc()
	return rec.UserID
}

// Destroy deletes the first stored record for sessionID and releases the
// in-memory mirror, if this process holds one. The store's delete decides
// the result, so concurrent calls for one id report true at most once per
// stored record.
func (r *PersistentRegistry) Destroy(ctx context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}

	var removed bool
	err := r.call(ctx, "delete", func(ctx context.Context) error {
		var err error
		removed, err = r.store.Delete(ctx, sessionID)
		return err
	})
	if err != nil {
		slog.Warn("deleting session failed", "session", debug.Redact(sessionID), "error", err)
		removed = false
	}
	if !removed {
		observability.SessionOperationsTotal.WithLabelValues("persistent", "destroy", "miss").Inc()
		return false
	}

	r.inner.Destroy(ctx, sessionID)
	observability.SessionOperationsTotal.WithLabelValues("persistent", "destroy", "hit").Inc()
	return true
}

// find returns the first record stored under sessionID.
func (r *PersistentRegistry) find(ctx context.Context, sessionID string) (Record, bool) {
	var recs []Record
	err := r.call(ctx, "find", func(ctx context.Context) error {
		var err error
		recs, err = r.store.FindBySessionID(ctx, sessionID)
		return err
	})
	if err != nil {
		slog.Warn("querying session failed", "session", debug.Redact(sessionID), "error", err)
		return Record{}, false
	}
	if len(recs) == 0 {
		return Record{}, false
	}
	return recs[0], true
}

// call runs fn under the query timeout and records store metrics.
func (r *PersistentRegistry) call(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	observability.SessionStoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.SessionStoreErrorsTotal.WithLabelValues(op).Inc()
	}
	return err
}
