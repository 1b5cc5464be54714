package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	stores := make(map[string]Store)
	for _, backend := range Backends {
		s, err := OpenStore(ctx, backend, t.TempDir(), DiscardLogger())
		if err != nil {
			t.Fatalf("OpenStore(%s): %v", backend, err)
		}
		t.Cleanup(func() { s.Close() })
		stores[backend] = s
	}
	return stores
}

func storedFixture() []Subscription {
	created := time.Date(2025, 1, 2, 3, 4, 5, 600_000_000, time.UTC)
	a := netflix()
	a.UserID = "user-1"
	a.Description = "family plan"
	a.CreatedAt, a.UpdatedAt = created, created.Add(time.Hour)
	b := a
	b.ID = "0b6f5c1e-aaaa-bbbb-cccc-000000000002"
	b.Name = "Dropbox"
	b.Amount = 119.88
	b.BillingFrequency = Yearly
	b.IsActive = false
	b.Description = ""
	return []Subscription{a, b}
}

func TestStore_SubscriptionRoundTrip(t *testing.T) {
	ctx := context.Background()
	for backend, s := range openTestStores(t) {
		t.Run(backend, func(t *testing.T) {
			want := storedFixture()
			if err := s.SaveSubscriptions(ctx, "user-1", want); err != nil {
				t.Fatal(err)
			}
			got, err := s.LoadSubscriptions(ctx, "user-1")
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(want) {
				t.Fatalf("got %d subscriptions, want %d", len(got), len(want))
			}
			for i := range want {
				g, w := got[i], want[i]
				if g.ID != w.ID || g.Name != w.Name || g.Amount != w.Amount || g.BillingFrequency != w.BillingFrequency ||
					g.IsActive != w.IsActive || g.Description != w.Description || g.Category != w.Category {
					t.Errorf("subscription %d = %+v, want %+v", i, g, w)
				}
				if !g.NextPaymentDate.Equal(w.NextPaymentDate) || !g.CreatedAt.Equal(w.CreatedAt) || !g.UpdatedAt.Equal(w.UpdatedAt) {
					t.Errorf("subscription %d timestamps differ: %+v", i, g)
				}
			}
		})
	}
}

func TestStore_EmptyAndIsolated(t *testing.T) {
	ctx := context.Background()
	for backend, s := range openTestStores(t) {
		t.Run(backend, func(t *testing.T) {
			got, err := s.LoadSubscriptions(ctx, "nobody")
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 0 {
				t.Errorf("expected no subscriptions, got %d", len(got))
			}

			if err := s.SaveSubscriptions(ctx, "user-1", storedFixture()); err != nil {
				t.Fatal(err)
			}
			if got, _ := s.LoadSubscriptions(ctx, "user-2"); len(got) != 0 {
				t.Errorf("user-2 sees %d subscriptions of user-1", len(got))
			}

			// Saving a shorter list replaces the previous one.
			if err := s.SaveSubscriptions(ctx, "user-1", storedFixture()[:1]); err != nil {
				t.Fatal(err)
			}
			if got, _ := s.LoadSubscriptions(ctx, "user-1"); len(got) != 1 {
				t.Errorf("got %d subscriptions after replace, want 1", len(got))
			}
		})
	}
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	users := []Account{
		{User: User{ID: "u1", Email: "ann@example.com", Name: "Ann", CreatedAt: created}, PasswordHash: "hash-1"},
		{User: User{ID: "u2", Email: "bob@example.com", Name: "Bob", CreatedAt: created.Add(time.Minute)}, PasswordHash: "hash-2"},
	}
	for backend, s := range openTestStores(t) {
		t.Run(backend, func(t *testing.T) {
			if got, err := s.LoadUsers(ctx); err != nil || len(got) != 0 {
				t.Fatalf("LoadUsers on empty store = %v, %v", got, err)
			}
			if err := s.SaveUsers(ctx, users); err != nil {
				t.Fatal(err)
			}
			got, err := s.LoadUsers(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 2 || got[0].Email != "ann@example.com" || got[1].PasswordHash != "hash-2" {
				t.Errorf("LoadUsers = %+v", got)
			}
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.SaveSubscriptions(ctx, "u", storedFixture()); err != nil {
		t.Fatal(err)
	}
	got, _ := s.LoadSubscriptions(ctx, "u")
	got[0].Name = "changed"
	again, _ := s.LoadSubscriptions(ctx, "u")
	if again[0].Name != "Netflix" {
		t.Errorf("store was modified through a loaded slice: %s", again[0].Name)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1, err := NewFileStore(dir, DiscardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.SaveSubscriptions(ctx, "user/1", storedFixture()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "subscriptions-user_1.json")); err != nil {
		t.Errorf("expected sanitized file name: %v", err)
	}

	s2, _ := NewFileStore(dir, DiscardLogger())
	got, err := s2.LoadSubscriptions(ctx, "user/1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d subscriptions, want 2", len(got))
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir, DiscardLogger())
	if err := os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadUsers(context.Background()); err == nil {
		t.Error("expected error for corrupt users file")
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tracker.db")

	s1, err := NewSQLiteStore(ctx, path, DiscardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.SaveSubscriptions(ctx, "user-1", storedFixture()); err != nil {
		t.Fatal(err)
	}
	s1.Close()

	// Migrations are already applied on the second open.
	s2, err := NewSQLiteStore(ctx, path, DiscardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.LoadSubscriptions(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "Netflix" || got[1].Name != "Dropbox" {
		t.Errorf("LoadSubscriptions = %+v", got)
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	if _, err := OpenStore(context.Background(), "mongo", t.TempDir(), DiscardLogger()); err == nil {
		t.Error("expected error for unknown backend")
	}
}
