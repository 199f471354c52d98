// Package account implements the user-facing authentication service:
// registration, password login, session handling and password reset.
//
// Sessions are opened through the same session.Registry chain the request
// gate uses, so a session created here is honored by every gated route.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rhuss/authgate/pkg/debug"
	"github.com/rhuss/authgate/pkg/session"
	"github.com/rhuss/authgate/pkg/storage"
	"github.com/rhuss/authgate/pkg/users"
	"github.com/rhuss/authgate/pkg/users/password"
)

var (
	ErrAlreadyRegistered = errors.New("email already registered")
	ErrUnknownEmail      = errors.New("no user found for this email")
	ErrWrongPassword     = errors.New("wrong password")
	ErrInvalidResetToken = errors.New("invalid reset token")

	// ErrInvalidPassword wraps password.ErrEmpty and password.ErrTooLong.
	ErrInvalidPassword = errors.New("invalid password")
)

// RegisterOption sets optional profile fields on a new user.
type RegisterOption func(*users.User)

// WithName records the user's first and last name.
func WithName(first, last string) RegisterOption {
	return func(u *users.User) {
		u.FirstName = strings.TrimSpace(first)
		u.LastName = strings.TrimSpace(last)
	}
}

// Service implements the account operations.
type Service struct {
	users    users.Store
	hasher   password.Hasher
	sessions session.Registry
}

// NewService creates a Service.
func NewService(store users.Store, hasher password.Hasher, sessions session.Registry) *Service {
	return &Service{
		users:    store,
		hasher:   hasher,
		sessions: sessions,
	}
}

// Register creates a user with a hashed password. An existing account
// for email is left untouched and ErrAlreadyRegistered is returned.
func (s *Service) Register(ctx context.Context, email, plaintext string, opts ...RegisterOption) (*users.User, error) {
	email = normalizeEmail(email)

	if _, err := s.FindByEmail(ctx, email); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, ErrUnknownEmail) {
		return nil, err
	}

	hash, err := s.hash(plaintext)
	if err != nil {
		return nil, err
	}

	u := users.New(email, hash)
	for _, opt := range opts {
		opt(u)
	}
	if err := s.users.Add(ctx, u); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("adding user: %w", err)
	}

	slog.Info("user registered", "user_id", u.ID)
	return u, nil
}

// FindByEmail returns the first user registered under email. Surrounding
// whitespace is ignored, as it is by Register.
func (s *Service) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrUnknownEmail
	}
	found, err := s.users.Search(ctx, users.Criteria{Email: email})
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrUnknownEmail
	}
	return found[0], nil
}

// Authenticate checks email and password and returns the user.
// Returns ErrUnknownEmail or ErrWrongPassword on failure.
func (s *Service) Authenticate(ctx context.Context, email, plaintext string) (*users.User, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !u.IsValidPassword(s.hasher, plaintext) {
		return nil, ErrWrongPassword
	}
	return u, nil
}

// ValidLogin reports whether email and password identify a user.
func (s *Service) ValidLogin(ctx context.Context, email, plaintext string) bool {
	_, err := s.Authenticate(ctx, email, plaintext)
	return err == nil
}

// CreateSession opens a session for the user registered under email and
// returns its id, or "" when there is no such user.
func (s *Service) CreateSession(ctx context.Context, email string) string {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		return ""
	}
	return s.sessions.Create(ctx, u.ID)
}

// UserFromSession returns the user bound to sessionID, or nil.
func (s *Service) UserFromSession(ctx context.Context, sessionID string) *users.User {
	userID := s.sessions.Lookup(ctx, sessionID)
	if userID == "" {
		return nil
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil
	}
	return u
}

// DestroySession ends sessionID and reports whether a session was removed.
func (s *Service) DestroySession(ctx context.Context, sessionID string) bool {
	return s.sessions.Destroy(ctx, sessionID)
}

// ResetPasswordToken issues a one-time reset token for the user
// registered under email and stores it on the user.
func (s *Service) ResetPasswordToken(ctx context.Context, email string) (string, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	u.ResetToken = uuid.NewString()
	if err := s.users.Update(ctx, u); err != nil {
		return "", fmt.Errorf("storing reset token: %w", err)
	}

	debug.Log("auth", "reset token issued", "user_id", u.ID, "token", debug.Redact(u.ResetToken))
	return u.ResetToken, nil
}

// UpdatePassword sets a new password for the user holding token and
// invalidates the token.
func (s *Service) UpdatePassword(ctx context.Context, token, plaintext string) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	found, err := s.users.Search(ctx, users.Criteria{ResetToken: token})
	if err != nil {
		return fmt.Errorf("searching users: %w", err)
	}
	if len(found) == 0 {
		return ErrInvalidResetToken
	}
	u := found[0]

	hash, err := s.hash(plaintext)
	if err != nil {
		return err
	}

	u.HashedPassword = hash
	u.ResetToken = ""
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	slog.Info("password updated", "user_id", u.ID)
	return nil
}

// CountUsers returns the number of registered users.
func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}

// hash rejects passwords the hasher cannot take with ErrInvalidPassword.
func (s *Service) hash(plaintext string) (string, error) {
	hash, err := s.hasher.Hash(plaintext)
	if errors.Is(err, password.ErrEmpty) || errors.Is(err, password.ErrTooLong) {
		return "", fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	}
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
