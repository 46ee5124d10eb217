package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/clinicdesk/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete the existing local store before initializing. SQLite stores are snapshotted first."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		path := ctx.Store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			if mgr, err := snapshots(ctx.Store); err == nil {
				snap, err := mgr.Create()
				if err != nil {
					return fmt.Errorf("failed to snapshot existing store: %w", err)
				}
				ctx.Printf("Snapshot of existing store: %s\n", snap.Name())
			}
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized clinicdesk storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
