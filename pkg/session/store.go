package session

import (
	"context"
	"sync"
)

// RecordStore persists session records for PersistentRegistry.
type RecordStore interface {
	// Save stores a new record.
	Save(ctx context.Context, rec Record) error

	// FindBySessionID returns the records stored under sessionID, oldest
	// first. No match is an empty slice, not an error.
	FindBySessionID(ctx context.Context, sessionID string) ([]Record, error)

	// Delete removes the oldest record stored under sessionID and reports
	// whether one was removed. Deleting a missing record is not an error.
	Delete(ctx context.Context, sessionID string) (bool, error)

	HealthCheck(ctx context.Context) error
	Close() error
}

// MemoryStore is a process-local RecordStore, used when no durable
// backend is configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

var _ RecordStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) FindBySessionID(_ context.Context, sessionID string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, rec := range s.records {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.records {
		if rec.SessionID == sessionID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// HealthCheck always succeeds for the in-memory store.
func (s *MemoryStore) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
