// Package redis provides a Redis implementation of session.RecordStore.
// Records are stored as JSON lists under a key per session id and carry
// no TTL: expiry is evaluated by the registry on lookup.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rhuss/authgate/pkg/session"
)

// DefaultKeyPrefix namespaces session keys.
const DefaultKeyPrefix = "session:"

// Config holds Redis connection settings.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Store is a Redis-backed RecordStore.
type Store struct {
	client *redis.Client
	prefix string
}

var _ session.RecordStore = (*Store)(nil)

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewWithClient(client, cfg.KeyPrefix), nil
}

// NewWithClient wraps an existing client. An empty prefix uses DefaultKeyPrefix.
func NewWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *Store) Save(ctx context.Context, rec session.Record) error {
	if rec.SessionID == "" || rec.UserID == "" {
		return fmt.Errorf("session: missing session_id or user_id")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	return s.client.RPush(ctx, s.key(rec.SessionID), data).Err()
}

func (s *Store) FindBySessionID(ctx context.Context, sessionID string) ([]session.Record, error) {
	vals, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]session.Record, 0, len(vals))
	for _, v := range vals {
		var rec session.Record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("session: unmarshal: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Delete pops the oldest record; the key disappears with its last element.
func (s *Store) Delete(ctx context.Context, sessionID string) (bool, error) {
	err := s.client.LPop(ctx, s.key(sessionID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HealthCheck pings the server.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}
