package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinicdesk.json")

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := store.Init(); err == nil {
		t.Error("second Init() should fail")
	}

	if err := store.Set("userRole", "patient"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	reloaded := NewJSONStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	got, err := reloaded.Get("userRole")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "patient" {
		t.Errorf("Get() = %q, want %q", got, "patient")
	}

	if err := reloaded.Delete("userRole"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := reloaded.Get("userRole"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestJSONStoreNotLoaded(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("Load() should fail for a missing file")
	}
	if _, err := store.Get("token"); err == nil {
		t.Error("Get() should fail before Load()")
	}
}

func TestGetOr(t *testing.T) {
	store := NewMemoryStore()

	got, err := GetOr(store, "selectedDate", "2024-01-01")
	if err != nil {
		t.Fatalf("GetOr() failed: %v", err)
	}
	if got != "2024-01-01" {
		t.Errorf("GetOr() default = %q, want %q", got, "2024-01-01")
	}

	_ = store.Set("selectedDate", "2024-02-02")
	got, _ = GetOr(store, "selectedDate", "2024-01-01")
	if got != "2024-02-02" {
		t.Errorf("GetOr() = %q, want %q", got, "2024-02-02")
	}

	keys, _ := store.Keys()
	if len(keys) != 1 || keys[0] != "selectedDate" {
		t.Errorf("Keys() = %v, want [selectedDate]", keys)
	}
}
