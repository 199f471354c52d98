// Package postgres provides a PostgreSQL implementation of users.Store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rhuss/authgate/pkg/storage"
	pgstore "github.com/rhuss/authgate/pkg/storage/postgres"
	"github.com/rhuss/authgate/pkg/users"
)

const userColumns = `id, email, hashed_password, first_name, last_name, reset_token, created_at, updated_at`

// Store is a PostgreSQL-backed users.Store. The pool is owned by the
// caller; Close does not release it.
type Store struct {
	pool *pgxpool.Pool
}

var _ users.Store = (*Store)(nil)

// New creates a store on an open pool with the users table migrated.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Add(ctx context.Context, u *users.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		u.ID, u.Email, u.HashedPassword,
		nullString(u.FirstName), nullString(u.LastName), nullString(u.ResetToken),
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if pgstore.IsDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*users.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

func (s *Store) Search(ctx context.Context, c users.Criteria) ([]*users.User, error) {
	var (
		where []string
		args  []any
	)
	if c.Email != "" {
		args = append(args, c.Email)
		where = append(where, fmt.Sprintf("lower(email) = lower($%d)", len(args)))
	}
	if c.ResetToken != "" {
		args = append(args, c.ResetToken)
		where = append(where, fmt.Sprintf("reset_token = $%d", len(args)))
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	var out []*users.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, u *users.User) error {
	u.UpdatedAt = time.Now().UTC()
	result, err := s.pool.Exec(ctx, `
		UPDATE users
		SET email = $2, hashed_password = $3, first_name = $4, last_name = $5,
		    reset_token = $6, updated_at = $7
		WHERE id = $1
	`,
		u.ID, u.Email, u.HashedPassword,
		nullString(u.FirstName), nullString(u.LastName), nullString(u.ResetToken),
		u.UpdatedAt,
	)
	if err != nil {
		if pgstore.IsDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("updating user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close is a no-op; the pool belongs to the caller.
func (s *Store) Close() error {
	return nil
}

func scanUser(row pgx.Row) (*users.User, error) {
	var u users.User
	var firstName, lastName, resetTok *string
	if err := row.Scan(
		&u.ID, &u.Email, &u.HashedPassword,
		&firstName, &lastName, &resetTok,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.FirstName = deref(firstName)
	u.LastName = deref(lastName)
	u.ResetToken = deref(resetTok)
	return &u, nil
}

// nullString converts an empty string to nil for nullable TEXT columns.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
