package system

import (
	"os"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/clinicdesk/internal/backup"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/storage"
	"github.com/julianstephens/clinicdesk/internal/storage/sqlite"
	"github.com/julianstephens/clinicdesk/internal/testutil/clitest"
)

func TestInitCmd(t *testing.T) {
	env := clitest.New(t, models.RoleNone, "")

	cmd := &InitCmd{}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("InitCmd.Run() failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Initialized clinicdesk storage at:") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}
}

func TestInitCmdForce(t *testing.T) {
	env := clitest.New(t, models.RoleNone, "")
	if err := env.Ctx.Store.Set(constants.StoreKeyLastDate, "2024-03-01"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	cmd := &InitCmd{Force: true}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("InitCmd.Run() failed: %v", err)
	}

	if _, err := os.Stat(env.Ctx.Store.GetConfigPath()); err != nil {
		t.Fatalf("store missing after forced init: %v", err)
	}
	if !strings.Contains(env.Out.String(), "Snapshot of existing store:") {
		t.Errorf("output %q does not mention the snapshot", env.Out.String())
	}
	if !strings.Contains(env.Out.String(), "Deleted existing store at:") {
		t.Errorf("output %q does not mention the deleted store", env.Out.String())
	}
	got, err := storage.GetOr(env.Ctx.Store, constants.StoreKeyLastDate, "")
	if err != nil {
		t.Fatalf("GetOr() failed: %v", err)
	}
	if got != "" {
		t.Errorf("last date = %q after forced init, want empty", got)
	}
}

func TestSnapshotAndRestore(t *testing.T) {
	env := clitest.New(t, models.RoleDoctor, "")
	path := env.Ctx.Store.GetConfigPath()

	if err := (&SnapshotsCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("SnapshotsCmd.Run() failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "No snapshots found.") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}

	if err := (&SnapshotCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("SnapshotCmd.Run() failed: %v", err)
	}
	mgr := backup.NewManager(path)
	snaps, err := mgr.List()
	if err != nil || len(snaps) != 1 {
		t.Fatalf("List() = %v, %v; want one snapshot", snaps, err)
	}

	if err := env.Ctx.Session.SetRole(models.RoleAdmin); err != nil {
		t.Fatalf("SetRole() failed: %v", err)
	}

	restore := &RestoreCmd{Snapshot: snaps[0].Name(), Yes: true}
	if err := restore.Run(env.Ctx); err != nil {
		t.Fatalf("RestoreCmd.Run() failed: %v", err)
	}

	reopened := sqlite.NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() after restore failed: %v", err)
	}
	defer reopened.Close()
	role, err := reopened.Get(constants.StoreKeyRole)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if role != string(models.RoleDoctor) {
		t.Errorf("role after restore = %q, want doctor", role)
	}
}

func TestSnapshotRequiresSQLite(t *testing.T) {
	env := clitest.New(t, models.RoleNone, "")
	env.Ctx.Store = storage.NewMemoryStore()

	if err := (&SnapshotCmd{}).Run(env.Ctx); err == nil {
		t.Fatal("SnapshotCmd.Run() should fail for a non-SQLite store")
	}
}

func TestCheckCmdHealthy(t *testing.T) {
	gokeyring.MockInit()
	env := clitest.New(t, models.RoleAdmin, fakeAdmin)

	cmd := &CheckCmd{Timeout: 5 * time.Second}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("CheckCmd.Run() failed: %v\n%s", err, env.Out.String())
	}

	out := env.Out.String()
	for _, want := range []string{"✓ Local storage: OK", "✓ Configuration: OK", "✓ Session: OK (role admin)", "✓ Backend reachable: OK", "All diagnostics passed!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(env.Srv.CallsTo("GET", "/doctor")) != 1 {
		t.Errorf("expected one backend probe")
	}
}

func TestCheckCmdWarnsOnInvalidSession(t *testing.T) {
	gokeyring.MockInit()
	env := clitest.New(t, models.RoleDoctor, "")

	cmd := &CheckCmd{Timeout: 5 * time.Second}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("CheckCmd.Run() failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "⚠ Session: WARNING") {
		t.Errorf("output missing session warning:\n%s", env.Out.String())
	}
}

func TestCheckCmdBackendDown(t *testing.T) {
	gokeyring.MockInit()
	env := clitest.New(t, models.RoleNone, "")
	env.Srv.Close()

	cmd := &CheckCmd{Timeout: time.Second}
	err := cmd.Run(env.Ctx)
	if err == nil {
		t.Fatal("CheckCmd.Run() should fail when the backend is unreachable")
	}
	if !strings.Contains(env.Out.String(), "❌ Backend reachable: FAIL") {
		t.Errorf("output missing backend failure:\n%s", env.Out.String())
	}
}

func TestCheckCmdBackendServerError(t *testing.T) {
	gokeyring.MockInit()
	env := clitest.New(t, models.RoleNone, "")
	env.Srv.Fail("GET", "/doctor", 503)

	cmd := &CheckCmd{Timeout: time.Second}
	if err := cmd.Run(env.Ctx); err == nil {
		t.Fatal("CheckCmd.Run() should fail when the backend answers 503")
	}
}

const fakeAdmin = "admin"
