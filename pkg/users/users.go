// Package users defines the principal resolved by authentication and the
// store interface the providers and the account service look users up
// through.
package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rhuss/authgate/pkg/users/password"
)

// User is an account that can authenticate against the service.
type User struct {
	ID             string
	Email          string
	HashedPassword string
	FirstName      string
	LastName       string
	ResetToken     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New returns a user with a fresh ID and creation timestamps.
func New(email, hashedPassword string) *User {
	now := time.Now().UTC()
	return &User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// DisplayName returns the name to greet the user with, falling back to
// the email address when no name is known.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// IsValidPassword reports whether plaintext matches the stored hash.
// Empty passwords never match.
func (u *User) IsValidPassword(h password.Hasher, plaintext string) bool {
	if u == nil || plaintext == "" || u.HashedPassword == "" {
		return false
	}
	return h.Verify(plaintext, u.HashedPassword) == nil
}

// Clone returns a copy of u so stores can hand out values without
// sharing their internal state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Criteria selects users in Store.Search. Zero fields match everything;
// non-zero fields must all match.
type Criteria struct {
	Email      string
	ResetToken string
}

// Matches reports whether u satisfies c. Emails compare case-insensitively.
func (c Criteria) Matches(u *User) bool {
	if c.Email != "" && !strings.EqualFold(c.Email, u.Email) {
		return false
	}
	if c.ResetToken != "" && c.ResetToken != u.ResetToken {
		return false
	}
	return true
}

// Store persists users.
type Store interface {
	// Add inserts a new user. Returns storage.ErrConflict when the email
	// is already registered.
	Add(ctx context.Context, u *User) error

	// Get returns the user with the given ID or storage.ErrNotFound.
	Get(ctx context.Context, id string) (*User, error)

	// Search returns the users matching c, oldest first. An empty result
	// is not an error.
	Search(ctx context.Context, c Criteria) ([]*User, error)

	// Update replaces a stored user. Returns storage.ErrNotFound when the
	// user does not exist.
	Update(ctx context.Context, u *User) error

	// Count returns the number of stored users.
	Count(ctx context.Context) (int, error)

	HealthCheck(ctx context.Context) error
	Close() error
}
