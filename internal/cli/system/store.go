package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/clinicdesk/internal/backup"
	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/storage"
	"github.com/julianstephens/clinicdesk/internal/storage/sqlite"
	"github.com/julianstephens/clinicdesk/internal/tui"
)

// snapshots returns the snapshot manager for SQLite stores.
func snapshots(store storage.Provider) (*backup.Manager, error) {
	if _, ok := store.(*sqlite.Store); !ok {
		return nil, errors.New("snapshots are only supported for SQLite stores")
	}
	return backup.NewManager(store.GetConfigPath()), nil
}

type SnapshotCmd struct{}

func (c *SnapshotCmd) Run(ctx *cli.Context) error {
	mgr, err := snapshots(ctx.Store)
	if err != nil {
		return err
	}
	snap, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}
	ctx.Printf("✓ Snapshot created: %s\n", snap.Name())
	return nil
}

type SnapshotsCmd struct{}

func (c *SnapshotsCmd) Run(ctx *cli.Context) error {
	mgr, err := snapshots(ctx.Store)
	if err != nil {
		return err
	}
	snaps, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(snaps) == 0 {
		ctx.Println("No snapshots found.")
		ctx.Printf("Snapshots are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available snapshots (keeping most recent %d):\n\n", backup.MaxSnapshots)
	for _, s := range snaps {
		ctx.Printf("  %s  %s  (%.1f KB)\n", s.Taken.Format("2006-01-02 15:04:05"), s.Name(), float64(s.Size)/1024.0)
	}
	ctx.Printf("\nSnapshot directory: %s\n", mgr.Dir())
	return nil
}

// RestoreCmd replaces the local store with a snapshot. The current store is
// snapshotted first.
type RestoreCmd struct {
	Snapshot string `arg:"" help:"Snapshot file name or path."`
	Yes      bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *RestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := snapshots(ctx.Store)
	if err != nil {
		return err
	}
	path := mgr.Resolve(c.Snapshot)

	if !c.Yes {
		fm := &tui.ConfirmationFormModel{Message: "Replace the local session store with " + c.Snapshot + "?"}
		if err := tui.NewConfirmationForm(fm).Run(); err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !fm.Confirmed {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	if err := mgr.Restore(path); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	ctx.Println("✓ Local store restored.")
	return nil
}
