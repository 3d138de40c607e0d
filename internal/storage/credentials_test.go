package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"expensedash/internal/credentials"
)

func newTestStore(t *testing.T) *CredentialStore {
	t.Helper()
	store, err := NewCredentialStore(filepath.Join(t.TempDir(), "nested", "credentials.db"), nil)
	if err != nil {
		t.Fatalf("NewCredentialStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCredentialStore_SaveLoadDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Load(ctx, "default"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on empty store: err = %v, want ErrNotFound", err)
	}

	saved := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)
	if err := store.Save(ctx, Credential{Profile: "default", Token: "t1", UserID: "42", Username: "asha", SavedAt: saved}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	c, err := store.Load(ctx, "default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Token != "t1" || c.UserID != "42" || c.Username != "asha" || !c.SavedAt.Equal(saved) {
		t.Errorf("Load = %+v", c)
	}

	if err := store.Save(ctx, Credential{Profile: "default", Token: "t2"}); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	c, _ = store.Load(ctx, "default")
	if c.Token != "t2" || c.Username != "" {
		t.Errorf("overwrite did not replace row: %+v", c)
	}

	if err := store.Delete(ctx, "default"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, "default"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete: err = %v", err)
	}
	if err := store.Delete(ctx, "default"); err != nil {
		t.Errorf("Delete missing profile: %v", err)
	}
}

func TestCredentialStore_SaveValidation(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(context.Background(), Credential{Profile: "", Token: "x"}); err == nil {
		t.Error("expected error for empty profile")
	}
	if err := store.Save(context.Background(), Credential{Profile: "p", Token: " "}); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestCredentialStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, p := range []string{"work", "default"} {
		if err := store.Save(ctx, Credential{Profile: p, Token: "tok-" + p}); err != nil {
			t.Fatalf("Save %s: %v", p, err)
		}
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Profile != "default" || list[1].Profile != "work" {
		t.Errorf("List = %+v", list)
	}
}

func TestCredentialStore_Provider(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := store.Provider("default")

	if _, err := p.Token(ctx); !errors.Is(err, credentials.ErrNoCredential) {
		t.Fatalf("Token before login: err = %v, want ErrNoCredential", err)
	}
	if err := store.Save(ctx, Credential{Profile: "default", Token: "abc"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	tok, err := p.Token(ctx)
	if err != nil || tok != "abc" {
		t.Errorf("Token = %q, %v", tok, err)
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	if err := RunMigrations(path); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second run: %v", err)
	}
}
