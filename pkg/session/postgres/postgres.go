// Package postgres provides a PostgreSQL implementation of
// session.RecordStore backed by the user_sessions table.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rhuss/authgate/pkg/session"
)

// Store is a PostgreSQL-backed RecordStore. The pool is owned by the
// caller; Close does not release it.
type Store struct {
	pool *pgxpool.Pool
}

var _ session.RecordStore = (*Store)(nil)

// New creates a store on an open pool with the user_sessions table migrated.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Save(ctx context.Context, rec session.Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_sessions (session_id, user_id, created_at) VALUES ($1, $2, $3)`,
		rec.SessionID, rec.UserID, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *Store) FindBySessionID(ctx context.Context, sessionID string) ([]session.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, user_id, created_at
		FROM user_sessions
		WHERE session_id = $1
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []session.Record
	for rows.Next() {
		var rec session.Record
		if err := rows.Scan(&rec.SessionID, &rec.UserID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM user_sessions
		WHERE id = (SELECT id FROM user_sessions WHERE session_id = $1 ORDER BY id LIMIT 1)
	`, sessionID)
	if err != nil {
		return false, fmt.Errorf("deleting session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close is a no-op; the pool belongs to the caller.
func (s *Store) Close() error {
	return nil
}
