// Package backup keeps timestamped snapshots of the local SQLite store so a
// session can be recovered after a forced re-init.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/clinicdesk/internal/logger"
)

const (
	// MaxSnapshots is how many snapshots are kept after rotation.
	MaxSnapshots = 5
	DirName      = "snapshots"
	filePrefix   = "clinicdesk-"
	fileSuffix   = ".db"
	stampFormat  = "20060102-150405"
)

// ErrNoStore is returned when the store file does not exist yet.
var ErrNoStore = errors.New("local store does not exist")

type Snapshot struct {
	Path  string
	Taken time.Time
	Size  int64
}

func (s Snapshot) Name() string {
	return filepath.Base(s.Path)
}

type Manager struct {
	storePath string
	dir       string
	now       func() time.Time
}

// NewManager manages snapshots of the store at storePath. Snapshots live in
// a directory next to it.
func NewManager(storePath string) *Manager {
	return &Manager{
		storePath: storePath,
		dir:       filepath.Join(filepath.Dir(storePath), DirName),
		now:       time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a new snapshot and drops the oldest beyond MaxSnapshots.
func (m *Manager) Create() (Snapshot, error) {
	if _, err := os.Stat(m.storePath); os.IsNotExist(err) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNoStore, m.storePath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return Snapshot{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return Snapshot{}, err
	}
	if err := vacuumInto(m.storePath, path); err != nil {
		return Snapshot{}, fmt.Errorf("failed to snapshot store: %w", err)
	}

	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate snapshots", "dir", m.dir, "error", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Snapshot{}, err
	}
	logger.Info("Snapshot created", "path", path)
	return Snapshot{Path: path, Taken: m.now(), Size: info.Size()}, nil
}

// nextPath picks an unused file name for the current time.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(stampFormat)
	path := filepath.Join(m.dir, filePrefix+stamp+fileSuffix)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique snapshot name")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s%s-%d%s", filePrefix, stamp, n, fileSuffix))
	}
}

// List returns snapshots newest first.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	snaps := []Snapshot{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if len(stamp) > len(stampFormat) {
			stamp = stamp[:len(stampFormat)]
		}
		taken, err := time.ParseInLocation(stampFormat, stamp, time.Local)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snaps = append(snaps, Snapshot{Path: filepath.Join(m.dir, name), Taken: taken, Size: info.Size()})
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		if snaps[i].Taken.Equal(snaps[j].Taken) {
			return snaps[i].Path > snaps[j].Path
		}
		return snaps[i].Taken.After(snaps[j].Taken)
	})
	return snaps, nil
}

func (m *Manager) rotate() error {
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxSnapshots; i < len(snaps); i++ {
		if err := os.Remove(snaps[i].Path); err != nil {
			return fmt.Errorf("failed to remove old snapshot %s: %w", snaps[i].Name(), err)
		}
	}
	return nil
}

// Resolve maps a snapshot name or path to a path, preferring the snapshot
// directory for bare names.
func (m *Manager) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	candidate := filepath.Join(m.dir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return name
}

// Restore replaces the store with snapshotPath. The store must be closed.
// The current store, when present, is snapshotted first without rotation.
func (m *Manager) Restore(snapshotPath string) error {
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		return fmt.Errorf("snapshot does not exist: %s", snapshotPath)
	}
	if err := verify(snapshotPath); err != nil {
		return fmt.Errorf("snapshot is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.storePath); err == nil {
		if err := os.MkdirAll(m.dir, 0700); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		path, err := m.nextPath()
		if err != nil {
			return err
		}
		if err := vacuumInto(m.storePath, path); err != nil {
			return fmt.Errorf("failed to snapshot current store before restore: %w", err)
		}
		logger.Info("Snapshot of current store taken before restore", "path", path)
	}

	tmp := m.storePath + ".restore.tmp"
	if err := copyFile(snapshotPath, tmp); err != nil {
		return fmt.Errorf("failed to copy snapshot: %w", err)
	}
	if err := os.Rename(tmp, m.storePath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return fmt.Errorf("failed to restore store: %w", err)
	}
	return nil
}

func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("store appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		db.Close()
		return copyFile(src, dst)
	}
	return nil
}

func verify(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
