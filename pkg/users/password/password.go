// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost bounds accepted by WithCost.
const (
	MinCost     = bcrypt.MinCost
	MaxCost     = bcrypt.MaxCost
	DefaultCost = bcrypt.DefaultCost
)

// MaxLength is the longest password bcrypt accepts, in bytes.
const MaxLength = 72

var (
	// ErrMismatch is returned by Verify when the password does not match.
	ErrMismatch = errors.New("password: invalid password")

	ErrEmpty   = errors.New("password: empty password")
	ErrTooLong = errors.New("password: longer than 72 bytes")
)

// Hasher hashes passwords and verifies them against stored hashes.
type Hasher interface {
	Hash(plaintext string) (string, error)

	// Verify returns nil when plaintext matches hash.
	Verify(plaintext, hash string) error
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// BcryptOption configures a BcryptHasher.
type BcryptOption func(*BcryptHasher)

// WithCost sets the bcrypt cost. Values outside [MinCost, MaxCost] are ignored.
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= MinCost && cost <= MaxCost {
			h.cost = cost
		}
	}
}

// NewBcryptHasher creates a bcrypt hasher with DefaultCost unless overridden.
func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: DefaultCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Cost returns the configured bcrypt cost.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmpty
	}
	if len(plaintext) > MaxLength {
		return "", ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return ErrMismatch
	}
	return nil
}
