package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rhuss/authgate/pkg/session"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := New(context.Background(), Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedis_SaveFindDelete(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := s.Save(ctx, session.Record{SessionID: "sid-1", UserID: "user-1", CreatedAt: created}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !mr.Exists("session:sid-1") {
		t.Fatal("expected key session:sid-1")
	}
	if ttl := mr.TTL("session:sid-1"); ttl != 0 {
		t.Errorf("TTL = %v, want none", ttl)
	}

	recs, err := s.FindBySessionID(ctx, "sid-1")
	if err != nil {
		t.Fatalf("FindBySessionID failed: %v", err)
	}
	if len(recs) != 1 || recs[0].UserID != "user-1" || !recs[0].CreatedAt.Equal(created) {
		t.Fatalf("records = %+v, want one user-1 record at %v", recs, created)
	}

	if removed, err := s.Delete(ctx, "sid-1"); err != nil || !removed {
		t.Fatalf("Delete = %v, %v; want true, nil", removed, err)
	}
	if mr.Exists("session:sid-1") {
		t.Error("key still present after deleting its last record")
	}
	if removed, err := s.Delete(ctx, "sid-1"); err != nil || removed {
		t.Errorf("Delete(missing) = %v, %v; want false, nil", removed, err)
	}
}

func TestRedis_FindMissing(t *testing.T) {
	s, _ := setupStore(t)

	recs, err := s.FindBySessionID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("FindBySessionID failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("records = %d, want 0", len(recs))
	}
}

func TestRedis_SaveRejectsIncompleteRecord(t *testing.T) {
	s, _ := setupStore(t)

	if err := s.Save(context.Background(), session.Record{SessionID: "sid"}); err == nil {
		t.Error("expected error for record without user id")
	}
}

func TestRedis_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewWithClient(client, "authgate:")
	defer s.Close()

	s.Save(context.Background(), session.Record{SessionID: "sid", UserID: "u", CreatedAt: time.Now()})
	if !mr.Exists("authgate:sid") {
		t.Error("expected key with custom prefix")
	}
}

func TestRedis_UnreachableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := New(ctx, Config{Addr: addr}); err == nil {
		t.Error("expected connection error")
	}
}

func TestRedis_PersistentRegistry(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	r := session.NewPersistentRegistry(
		session.NewExpiryRegistry(session.NewMemoryRegistry(), time.Minute, session.WithClock(clock)),
		s,
	)

	sid := r.Create(ctx, "user-1")
	if got := r.Lookup(ctx, sid); got != "user-1" {
		t.Fatalf("Lookup = %q, want %q", got, "user-1")
	}

	now = now.Add(2 * time.Minute)
	if got := r.Lookup(ctx, sid); got != "" {
		t.Errorf("Lookup after expiry = %q, want empty", got)
	}

	// A store outage reads as "no session".
	mr.SetError("ERR store unavailable")
	if r.Destroy(ctx, sid) {
		t.Error("Destroy during outage = true, want false")
	}
	mr.SetError("")
	if !r.Destroy(ctx, sid) {
		t.Error("Destroy after recovery = false, want true")
	}
}
