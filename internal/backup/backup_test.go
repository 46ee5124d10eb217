package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T, role string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clinicdesk.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE local_storage (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO local_storage (key, value) VALUES ('userRole', ?)`, role); err != nil {
		t.Fatalf("failed to insert role: %v", err)
	}
	return path
}

func readRole(t *testing.T, path string) string {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	var role string
	if err := db.QueryRow(`SELECT value FROM local_storage WHERE key = 'userRole'`).Scan(&role); err != nil {
		t.Fatalf("failed to read role: %v", err)
	}
	return role
}

func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func TestCreate(t *testing.T) {
	path := setupStore(t, "doctor")
	mgr := NewManager(path)

	snap, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if filepath.Dir(snap.Path) != mgr.Dir() {
		t.Errorf("snapshot written to %s, want %s", filepath.Dir(snap.Path), mgr.Dir())
	}
	if got := readRole(t, snap.Path); got != "doctor" {
		t.Errorf("snapshot role = %q, want doctor", got)
	}
}

func TestCreateWithoutStore(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); !errors.Is(err, ErrNoStore) {
		t.Errorf("Create() error = %v, want ErrNoStore", err)
	}
}

func TestRotation(t *testing.T) {
	path := setupStore(t, "admin")
	mgr := NewManager(path)
	mgr.now = fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local))

	for i := 0; i < MaxSnapshots+3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
	}

	snaps, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(snaps) != MaxSnapshots {
		t.Fatalf("List() returned %d snapshots, want %d", len(snaps), MaxSnapshots)
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i].Taken.After(snaps[i-1].Taken) {
			t.Errorf("snapshots not sorted newest first: %v before %v", snaps[i-1].Taken, snaps[i].Taken)
		}
	}
}

func TestUniqueNames(t *testing.T) {
	path := setupStore(t, "admin")
	mgr := NewManager(path)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return at }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		snap, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if seen[snap.Name()] {
			t.Fatalf("duplicate snapshot name %s", snap.Name())
		}
		seen[snap.Name()] = true
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	path := setupStore(t, "admin")
	mgr := NewManager(path)
	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "clinicdesk-garbage.db", "other-20240301-090000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	snaps, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("List() = %v, want no snapshots", snaps)
	}
}

func TestRestore(t *testing.T) {
	path := setupStore(t, "doctor")
	mgr := NewManager(path)
	mgr.now = fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local))

	snap, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`UPDATE local_storage SET value = 'admin' WHERE key = 'userRole'`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if err := mgr.Restore(mgr.Resolve(snap.Name())); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if got := readRole(t, path); got != "doctor" {
		t.Errorf("role after restore = %q, want doctor", got)
	}

	snaps, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(snaps) != 2 {
		t.Errorf("expected a pre-restore snapshot, got %d snapshots", len(snaps))
	}
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	path := setupStore(t, "doctor")
	mgr := NewManager(path)

	bad := filepath.Join(t.TempDir(), "clinicdesk-20240301-090000.db")
	if err := os.WriteFile(bad, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Restore(bad); err == nil {
		t.Fatal("Restore() should reject a corrupt snapshot")
	}
	if got := readRole(t, path); got != "doctor" {
		t.Errorf("store changed after failed restore: role = %q", got)
	}
}

func TestResolve(t *testing.T) {
	path := setupStore(t, "doctor")
	mgr := NewManager(path)
	snap, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in, want string
	}{
		{snap.Name(), snap.Path},
		{snap.Path, snap.Path},
		{"missing.db", "missing.db"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("resolve %s", filepath.Base(tt.in)), func(t *testing.T) {
			if got := mgr.Resolve(tt.in); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
