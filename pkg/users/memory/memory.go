// Package memory provides an in-memory users.Store for tests and
// single-process deployments. Users are lost when the process restarts.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rhuss/authgate/pkg/storage"
	"github.com/rhuss/authgate/pkg/users"
)

// Store is an in-memory users.Store.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*users.User
	byEmail map[string]string // lower-cased email -> id
}

var _ users.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		byID:    make(map[string]*users.User),
		byEmail: make(map[string]string),
	}
}

func (s *Store) Add(_ context.Context, u *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := s.byEmail[key]; exists {
		return storage.ErrConflict
	}
	if _, exists := s.byID[u.ID]; exists {
		return storage.ErrConflict
	}

	s.byID[u.ID] = u.Clone()
	s.byEmail[key] = u.ID
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u.Clone(), nil
}

func (s *Store) Search(_ context.Context, c users.Criteria) ([]*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*users.User
	for _, u := range s.byID {
		if c.Matches(u) {
			out = append(out, u.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) Update(_ context.Context, u *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[u.ID]
	if !ok {
		return storage.ErrNotFound
	}

	oldKey, newKey := strings.ToLower(old.Email), strings.ToLower(u.Email)
	if oldKey != newKey {
		if _, taken := s.byEmail[newKey]; taken {
			return storage.ErrConflict
		}
		delete(s.byEmail, oldKey)
		s.byEmail[newKey] = u.ID
	}

	updated := u.Clone()
	updated.UpdatedAt = time.Now().UTC()
	s.byID[u.ID] = updated
	return nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

// HealthCheck always succeeds for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
