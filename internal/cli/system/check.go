package system

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julianstephens/clinicdesk/internal/api"
	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/keyring"
	"github.com/julianstephens/clinicdesk/internal/session"
)

// CheckCmd runs diagnostics over the local store, the keyring, the
// configuration and the backend.
type CheckCmd struct {
	Timeout time.Duration `help:"How long to wait for the backend." default:"5s"`
}

func (cmd *CheckCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}

	report("Local storage", checkStorage(ctx))
	report("Configuration", ctx.Config.Validate())

	if keyring.IsAvailable() {
		ctx.Println("✓ OS keyring: OK")
	} else {
		ctx.Println("⚠ OS keyring: WARNING")
		ctx.Println("   Not available, tokens are kept in local storage")
	}

	if s := session.Current(ctx.Session); !s.Valid() {
		ctx.Println("⚠ Session: WARNING")
		ctx.Printf("   Role %s has no token, the next command will log out\n", s.Role)
	} else {
		ctx.Printf("✓ Session: OK (role %s)\n", s.Role)
	}

	report("Backend reachable", checkBackend(ctx, cmd.Timeout))

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStorage(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to query storage: %w", err)
	}
	return nil
}

// checkBackend treats any HTTP answer as reachable; only transport failures count.
func checkBackend(ctx *cli.Context, timeout time.Duration) error {
	c, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := ctx.Client.Do(c, api.Request{Method: http.MethodGet, Path: "/doctor"})
	if err != nil {
		return fmt.Errorf("%s: %w", ctx.Client.BaseURL(), err)
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%s answered %d", ctx.Client.BaseURL(), resp.StatusCode)
	}
	return nil
}
