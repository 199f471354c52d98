package password

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	h := NewBcryptHasher(WithCost(MinCost))

	hash, err := h.Hash("b4l0u")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "b4l0u" {
		t.Fatal("hash equals plaintext")
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("hash %q is not a bcrypt hash", hash)
	}

	if err := h.Verify("b4l0u", hash); err != nil {
		t.Errorf("Verify(correct) = %v, want nil", err)
	}
	if err := h.Verify("wrong", hash); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify(wrong) = %v, want ErrMismatch", err)
	}
}

func TestHashSaltsEachCall(t *testing.T) {
	h := NewBcryptHasher(WithCost(MinCost))
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	if _, err := NewBcryptHasher().Hash(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestHashLengthLimit(t *testing.T) {
	h := NewBcryptHasher(WithCost(MinCost))
	if _, err := h.Hash(strings.Repeat("a", MaxLength)); err != nil {
		t.Errorf("Hash(%d bytes) = %v, want nil", MaxLength, err)
	}
	if _, err := h.Hash(strings.Repeat("a", MaxLength+1)); !errors.Is(err, ErrTooLong) {
		t.Errorf("Hash(%d bytes) = %v, want ErrTooLong", MaxLength+1, err)
	}
	if _, err := h.Hash(""); !errors.Is(err, ErrEmpty) {
		t.Errorf("Hash(\"\") = %v, want ErrEmpty", err)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	if err := NewBcryptHasher().Verify("x", "not-a-hash"); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify(malformed) = %v, want ErrMismatch", err)
	}
}

func TestWithCost(t *testing.T) {
	tests := []struct {
		cost int
		want int
	}{
		{MinCost, MinCost},
		{12, 12},
		{1, DefaultCost},
		{MaxCost + 1, DefaultCost},
	}
	for _, tt := range tests {
		if got := NewBcryptHasher(WithCost(tt.cost)).Cost(); got != tt.want {
			t.Errorf("WithCost(%d): cost = %d, want %d", tt.cost, got, tt.want)
		}
	}
}
