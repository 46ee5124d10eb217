package migration

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApply(t *testing.T) {
	db := openTestDB(t)
	files := fstest.MapFS{
		"001_local_storage.sql": {Data: []byte("CREATE TABLE local_storage (key TEXT PRIMARY KEY, value TEXT NOT NULL);")},
		"002_index.sql":         {Data: []byte("CREATE INDEX idx_local_storage_value ON local_storage(value);")},
		"README.md":             {Data: []byte("ignored")},
	}
	runner := New(db, files, SQLite)

	st, err := runner.Status()
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if st.Current != 0 || st.Latest != 2 || st.Pending() != 2 {
		t.Errorf("Status() before apply = %+v", st)
	}

	applied, err := runner.Apply()
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	version, err := runner.Current()
	if err != nil {
		t.Fatalf("Current() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	applied, err = runner.Apply()
	if err != nil {
		t.Fatalf("second Apply() failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second run applied = %d, want 0", applied)
	}
}

func TestApplyRollsBackFailedStep(t *testing.T) {
	db := openTestDB(t)
	files := fstest.MapFS{
		"001_local_storage.sql": {Data: []byte("CREATE TABLE local_storage (key TEXT PRIMARY KEY, value TEXT NOT NULL);")},
		"002_broken.sql":        {Data: []byte("CREATE TABLE local_storage (key TEXT);")},
	}
	runner := New(db, files, SQLite)

	applied, err := runner.Apply()
	if err == nil {
		t.Fatal("Apply() should fail on a broken step")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if v, _ := runner.Current(); v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
}

func TestStepsRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
	}{
		{"duplicate versions", fstest.MapFS{
			"001_a.sql": {Data: []byte("SELECT 1;")},
			"001_b.sql": {Data: []byte("SELECT 1;")},
		}},
		{"missing prefix", fstest.MapFS{"init.sql": {Data: []byte("SELECT 1;")}}},
		{"zero version", fstest.MapFS{"000_init.sql": {Data: []byte("SELECT 1;")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(openTestDB(t), tt.files, SQLite).Steps(); err == nil {
				t.Error("Steps() should fail")
			}
		})
	}
}

func TestValidateNewerSchema(t *testing.T) {
	db := openTestDB(t)
	runner := New(db, fstest.MapFS{"001_init.sql": {Data: []byte("SELECT 1;")}}, SQLite)

	if _, err := runner.Current(); err != nil {
		t.Fatalf("Current() failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (5)"); err != nil {
		t.Fatalf("failed to seed version: %v", err)
	}

	if err := runner.Validate(); err == nil {
		t.Error("Validate() should fail when the schema is newer than the migrations")
	}
	if _, err := runner.Apply(); err == nil {
		t.Error("Apply() should refuse a newer schema")
	}
}

func TestDialectPlaceholder(t *testing.T) {
	if SQLite.placeholder() != "?" || Postgres.placeholder() != "$1" {
		t.Errorf("unexpected placeholders: %q %q", SQLite.placeholder(), Postgres.placeholder())
	}
}
