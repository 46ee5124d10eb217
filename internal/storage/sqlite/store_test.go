package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/clinicdesk/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "clinicdesk.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.Get("userRole"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := store.Set("userRole", "doctor"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set("userRole", "admin"); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}

	got, err := store.Get("userRole")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "admin" {
		t.Errorf("Get() = %q, want %q", got, "admin")
	}

	if err := store.Set("token", "abc"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "token" || keys[1] != "userRole" {
		t.Errorf("Keys() = %v, want [token userRole]", keys)
	}

	if err := store.Delete("userRole"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get("userRole"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestStoreLoadReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinicdesk.db")

	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := first.Set("selectedDate", "2024-03-01"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	first.Close()

	second := NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer second.Close()

	got, err := second.Get("selectedDate")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "2024-03-01" {
		t.Errorf("Get() = %q, want %q", got, "2024-03-01")
	}
}

func TestStoreLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() should fail when the database file does not exist")
	}
}
