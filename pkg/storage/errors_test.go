package storage

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("adding user: %w", ErrConflict)
	if !errors.Is(wrapped, ErrConflict) {
		t.Error("wrapped ErrConflict not matched by errors.Is")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("ErrConflict must not match ErrNotFound")
	}
}
