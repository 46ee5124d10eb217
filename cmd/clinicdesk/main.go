package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/cli/account"
	"github.com/julianstephens/clinicdesk/internal/cli/appointments"
	"github.com/julianstephens/clinicdesk/internal/cli/doctors"
	"github.com/julianstephens/clinicdesk/internal/cli/patients"
	"github.com/julianstephens/clinicdesk/internal/cli/prescriptions"
	"github.com/julianstephens/clinicdesk/internal/cli/system"
	"github.com/julianstephens/clinicdesk/internal/config"
	"github.com/julianstephens/clinicdesk/internal/constants"
	apperrors "github.com/julianstephens/clinicdesk/internal/errors"
	"github.com/julianstephens/clinicdesk/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path"`
	Store   string `help:"Local store: a SQLite file, a .json file, :memory:, or a PostgreSQL connection string without a password." default:"${store}"`
	API     string `name:"api" help:"Backend base URL. Overrides api.base_url."`
	Debug   bool   `help:"Mirror logs to stderr."`

	Init   system.InitCmd    `cmd:"" help:"Initialize local session storage."`
	Check  system.CheckCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui    system.TuiCmd     `cmd:"" help:"Launch the interactive dashboards." default:"1"`
	Role   account.RoleCmd   `cmd:"" help:"Select a role."`
	Login  account.LoginCmd  `cmd:"" help:"Log in as admin, doctor or patient."`
	Logout account.LogoutCmd `cmd:"" help:"Log out."`
	Signup account.SignupCmd `cmd:"" help:"Create a patient account."`

	Snapshot struct {
		Create  system.SnapshotCmd  `cmd:"" help:"Snapshot the local store." default:"1"`
		List    system.SnapshotsCmd `cmd:"" help:"List local store snapshots."`
		Restore system.RestoreCmd   `cmd:"" help:"Restore the local store from a snapshot."`
	} `cmd:"" help:"Snapshot and restore the local SQLite store."`
	Session struct {
		Status account.StatusCmd `cmd:"" help:"Show the current role and token state." default:"1"`
	} `cmd:"" help:"Inspect the session."`
	Doctors struct {
		List   doctors.ListCmd   `cmd:"" help:"List doctors." default:"1"`
		Filter doctors.FilterCmd `cmd:"" help:"Search doctors by name, time or specialty."`
		Add    doctors.AddCmd    `cmd:"" help:"Add a doctor (admin)."`
		Delete doctors.DeleteCmd `cmd:"" help:"Delete a doctor (admin)."`
	} `cmd:"" help:"Browse and manage doctors."`
	Appointments struct {
		List   appointments.ListCmd   `cmd:"" help:"List a doctor's appointments for a date." default:"1"`
		Book   appointments.BookCmd   `cmd:"" help:"Book an appointment."`
		Update appointments.UpdateCmd `cmd:"" help:"Update an appointment."`
		Cancel appointments.CancelCmd `cmd:"" help:"Cancel an appointment."`
	} `cmd:"" help:"Manage appointments."`
	Patient struct {
		Profile      patients.ProfileCmd      `cmd:"" help:"Show the logged-in patient's profile."`
		Appointments patients.AppointmentsCmd `cmd:"" help:"List your appointments." default:"1"`
		Filter       patients.FilterCmd       `cmd:"" help:"Filter your appointments by time or doctor."`
	} `cmd:"" help:"Patient self-service."`
	Prescription struct {
		Add    prescriptions.AddCmd    `cmd:"" help:"Write a prescription for an appointment."`
		View   prescriptions.ViewCmd   `cmd:"" help:"Show an appointment's prescription."`
		Export prescriptions.ExportCmd `cmd:"" help:"Export an appointment's prescription as PDF."`
	} `cmd:"" help:"Manage prescriptions."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Front desk for the clinic management backend"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"store":   constants.DefaultStorePath,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: config.ExpandHome(constants.DefaultConfigDir),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	cfg, err := config.Load(CLI.Config)
	apperrors.Fatal(err)
	if CLI.API != "" {
		cfg.API.BaseURL = CLI.API
		apperrors.Fatal(cfg.Validate())
	}

	store, err := cli.OpenStore(CLI.Store)
	apperrors.Fatal(err)
	defer store.Close()

	// init creates the store; every other command needs it loaded
	if ctx.Command() != "init" {
		if err := store.Load(); err != nil {
			store.Close()
			apperrors.Fatal(err)
		}
	}

	appCtx := cli.NewContext(store, cfg)
	logger.Debug("Running command", "command", ctx.Command(), "api", cfg.API.BaseURL, "store", store.GetConfigPath())

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
