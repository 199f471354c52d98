package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rhuss/authgate/pkg/storage"
	"github.com/rhuss/authgate/pkg/storage/postgres/pgtest"
	"github.com/rhuss/authgate/pkg/users"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	return New(pgtest.Open(t).Pool())
}

func TestPostgres_AddAndGet(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	u := users.New("bob@hbtn.io", "hash")
	u.FirstName = "Bob"
	if err := s.Add(ctx, u); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := s.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Email != u.Email || got.FirstName != "Bob" || got.LastName != "" {
		t.Errorf("Get = %+v, want email=%q first=Bob", got, u.Email)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}

func TestPostgres_DuplicateEmail(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if err := s.Add(ctx, users.New("dup@hbtn.io", "a")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Add(ctx, users.New("DUP@hbtn.io", "b")); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("Add(duplicate) = %v, want ErrConflict", err)
	}
}

func TestPostgres_SearchAndUpdate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	a := users.New("a@hbtn.io", "x")
	b := users.New("b@hbtn.io", "x")
	b.CreatedAt = a.CreatedAt.Add(time.Second)
	s.Add(ctx, a)
	s.Add(ctx, b)

	all, err := s.Search(ctx, users.Criteria{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != a.ID {
		t.Fatalf("Search(all) = %d users", len(all))
	}

	b.ResetToken = "tok"
	if err := s.Update(ctx, b); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	found, _ := s.Search(ctx, users.Criteria{ResetToken: "tok"})
	if len(found) != 1 || found[0].ID != b.ID {
		t.Errorf("Search(token) = %v, want [%s]", found, b.ID)
	}

	found, _ = s.Search(ctx, users.Criteria{Email: "A@HBTN.IO"})
	if len(found) != 1 || found[0].ID != a.ID {
		t.Errorf("Search(email) = %v, want [%s]", found, a.ID)
	}

	n, _ := s.Count(ctx)
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}

	if err := s.Update(ctx, users.New("ghost@hbtn.io", "x")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Update(unknown) = %v, want ErrNotFound", err)
	}
}
