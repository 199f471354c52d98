package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rhuss/authgate/pkg/storage"
	"github.com/rhuss/authgate/pkg/users"
)

func TestAddAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := users.New("bob@hbtn.io", "hash")
	if err := s.Add(ctx, u); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := s.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Email != "bob@hbtn.io" {
		t.Errorf("Email = %q, want %q", got.Email, "bob@hbtn.io")
	}

	// Mutating the returned copy must not affect the store.
	got.Email = "changed@hbtn.io"
	again, _ := s.Get(ctx, u.ID)
	if again.Email != "bob@hbtn.io" {
		t.Errorf("store state leaked through Get: Email = %q", again.Email)
	}
}

func TestGetNotFound(t *testing.T) {
	_, err := New().Get(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddDuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Add(ctx, users.New("bob@hbtn.io", "a")); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	err := s.Add(ctx, users.New("BOB@hbtn.io", "b"))
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	n, _ := s.Count(ctx)
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestSearch(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := users.New("first@hbtn.io", "a")
	second := users.New("second@hbtn.io", "b")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	second.ResetToken = "tok"
	s.Add(ctx, first)
	s.Add(ctx, second)

	all, err := s.Search(ctx, users.Criteria{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID {
		t.Fatalf("Search(all) returned %d users, first=%v", len(all), all)
	}

	byEmail, _ := s.Search(ctx, users.Criteria{Email: "SECOND@hbtn.io"})
	if len(byEmail) != 1 || byEmail[0].ID != second.ID {
		t.Errorf("Search(email) = %v, want [%s]", byEmail, second.ID)
	}

	byToken, _ := s.Search(ctx, users.Criteria{ResetToken: "tok"})
	if len(byToken) != 1 || byToken[0].ID != second.ID {
		t.Errorf("Search(token) = %v, want [%s]", byToken, second.ID)
	}

	none, err := s.Search(ctx, users.Criteria{Email: "nobody@hbtn.io"})
	if err != nil || len(none) != 0 {
		t.Errorf("Search(unknown) = %v, %v; want empty, nil", none, err)
	}
}

func TestUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := users.New("bob@hbtn.io", "a")
	s.Add(ctx, u)

	u.ResetToken = "reset"
	if err := s.Update(ctx, u); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := s.Get(ctx, u.ID)
	if got.ResetToken != "reset" {
		t.Errorf("ResetToken = %q, want %q", got.ResetToken, "reset")
	}
	if got.UpdatedAt.Before(u.CreatedAt) {
		t.Error("UpdatedAt not advanced")
	}

	if err := s.Update(ctx, users.New("ghost@hbtn.io", "x")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Update(unknown) = %v, want ErrNotFound", err)
	}
}

func TestUpdateEmailConflict(t *testing.T) {
	s := New()
	ctx := context.Background()

	a := users.New("a@hbtn.io", "x")
	b := users.New("b@hbtn.io", "x")
	s.Add(ctx, a)
	s.Add(ctx, b)

	b.Email = "a@hbtn.io"
	if err := s.Update(ctx, b); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("Update(taken email) = %v, want ErrConflict", err)
	}
}
