// Package migration applies the numbered SQL files that shape the local
// session store. Both SQLite and PostgreSQL stores use it.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/logger"
)

// Dialect is the placeholder style of the driver.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) placeholder() string {
	if d == Postgres {
		return "$1"
	}
	return "?"
}

// Step is one migration file, e.g. 001_local_storage.sql.
type Step struct {
	Version int
	Name    string
	SQL     string
}

// Status compares the store's schema with the migrations this build carries.
type Status struct {
	Current int
	Latest  int
}

func (s Status) Pending() int {
	if s.Latest > s.Current {
		return s.Latest - s.Current
	}
	return 0
}

// TooNew reports a store written by a newer build.
func (s Status) TooNew() bool {
	return s.Current > s.Latest
}

type Runner struct {
	db      *sql.DB
	files   fs.FS
	dialect Dialect
}

func New(db *sql.DB, files fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, files: files, dialect: dialect}
}

func (r *Runner) ensureVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	return err
}

// Current is the applied schema version, 0 for a fresh store.
func (r *Runner) Current() (int, error) {
	if err := r.ensureVersionTable(); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	var v int
	err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// Steps parses the migration files in version order.
func (r *Runner) Steps() ([]Step, error) {
	entries, err := fs.ReadDir(r.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var steps []Step
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".sql" {
			continue
		}
		step, err := r.parse(name)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].Version < steps[j].Version })
	for i := 1; i < len(steps); i++ {
		if steps[i].Version == steps[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", steps[i].Version)
		}
	}
	return steps, nil
}

func (r *Runner) parse(name string) (Step, error) {
	prefix, rest, ok := strings.Cut(name, "_")
	if !ok {
		return Step{}, fmt.Errorf("invalid migration filename %s, expected NNN_name.sql", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version < 1 {
		return Step{}, fmt.Errorf("invalid version in migration filename %s", name)
	}
	body, err := fs.ReadFile(r.files, name)
	if err != nil {
		return Step{}, fmt.Errorf("failed to read migration %s: %w", name, err)
	}
	return Step{Version: version, Name: strings.TrimSuffix(rest, ".sql"), SQL: string(body)}, nil
}

// Status reports the applied and available versions.
func (r *Runner) Status() (Status, error) {
	current, err := r.Current()
	if err != nil {
		return Status{}, err
	}
	steps, err := r.Steps()
	if err != nil {
		return Status{}, err
	}
	st := Status{Current: current}
	if len(steps) > 0 {
		st.Latest = steps[len(steps)-1].Version
	}
	return st, nil
}

// Validate fails when the store was written by a newer build.
func (r *Runner) Validate() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	if st.TooNew() {
		return tooNew(st)
	}
	return nil
}

func tooNew(st Status) error {
	return fmt.Errorf("local store schema version (%d) is newer than supported version (%d), upgrade %s", st.Current, st.Latest, constants.AppName)
}

// Apply runs every pending step, each in its own transaction, and returns how
// many were applied.
func (r *Runner) Apply() (int, error) {
	current, err := r.Current()
	if err != nil {
		return 0, err
	}
	steps, err := r.Steps()
	if err != nil {
		return 0, err
	}
	if len(steps) == 0 {
		logger.Debug("No migration files found")
		return 0, nil
	}
	if st := (Status{Current: current, Latest: steps[len(steps)-1].Version}); st.TooNew() {
		return 0, tooNew(st)
	}

	start := time.Now()
	applied := 0
	for _, step := range steps {
		if step.Version <= current {
			continue
		}
		if err := r.applyStep(step); err != nil {
			return applied, err
		}
		applied++
		logger.Info("Migration applied", "version", step.Version, "name", step.Name)
	}

	if applied == 0 {
		logger.Debug("Local store schema is up to date", "version", current)
	} else {
		logger.Info("Migrations complete", "applied", applied, "took", time.Since(start))
	}
	return applied, nil
}

func (r *Runner) applyStep(step Step) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", step.Version, err)
	}
	fail := func(what string, err error) error {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d (%s): %s: %w", step.Version, step.Name, what, err)
	}

	if _, err := tx.Exec(step.SQL); err != nil {
		return fail("apply", err)
	}
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return fail("clear version", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES ("+r.dialect.placeholder()+")", step.Version); err != nil {
		return fail("record version", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", step.Version, err)
	}
	return nil
}
