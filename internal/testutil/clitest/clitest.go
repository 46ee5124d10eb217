// Package clitest builds command contexts backed by a temporary SQLite store
// and a fake backend.
package clitest

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/config"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/session"
	"github.com/julianstephens/clinicdesk/internal/storage/sqlite"
	"github.com/julianstephens/clinicdesk/internal/testutil/fakeapi"
)

// Env is a command context plus the pieces a test inspects.
type Env struct {
	Ctx *cli.Context
	Srv *fakeapi.Server
	Out *bytes.Buffer
}

// New returns an Env whose session holds role. When subject is set the
// session also holds a backend token issued to subject.
func New(t *testing.T, role models.Role, subject string) *Env {
	t.Helper()

	srv := fakeapi.New(t)
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL

	ctx := cli.NewContext(store, cfg, session.WithKeyring(false))
	out := &bytes.Buffer{}
	ctx.Out = out

	if err := ctx.Session.SetRole(role); err != nil {
		t.Fatalf("failed to set role: %v", err)
	}
	if subject != "" {
		tokenRole := string(role)
		if role == models.RoleLoggedPatient {
			tokenRole = "patient"
		}
		if err := ctx.Session.SetToken(srv.Token(subject, tokenRole)); err != nil {
			t.Fatalf("failed to set token: %v", err)
		}
	}
	return &Env{Ctx: ctx, Srv: srv, Out: out}
}
