package account

import (
	"context"
	"fmt"

	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/router"
	"github.com/julianstephens/clinicdesk/internal/tui"
)

// LoginCmd logs in as admin, doctor or patient. Missing credentials are
// asked for interactively.
type LoginCmd struct {
	Role       string `arg:"" enum:"admin,doctor,patient" help:"Role to log in as."`
	Identifier string `short:"u" help:"Username (admin), email (doctor) or email/phone (patient)."`
	Password   string `short:"p" help:"Password. Prompted when omitted."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	role, err := models.ParseRole(c.Role)
	if err != nil {
		return err
	}

	fm := &tui.LoginFormModel{Role: role, Identifier: c.Identifier, Password: c.Password}
	if fm.Identifier == "" || fm.Password == "" {
		if err := tui.NewLoginForm(fm).Run(); err != nil {
			return fmt.Errorf("login cancelled: %w", err)
		}
	}

	token, err := login(context.Background(), ctx, role, fm.Identifier, fm.Password)
	if err != nil {
		return cli.Fail(err)
	}
	target, err := router.LoginSucceeded(ctx.Session, role, token)
	if err != nil {
		return err
	}
	ctx.Printf("Logged in as %s.\n", ctx.Session.Role())
	ctx.Printf("Next: %s\n", target.Path())
	return nil
}

func login(c context.Context, ctx *cli.Context, role models.Role, identifier, password string) (string, error) {
	auth := ctx.Services.Auth
	switch role {
	case models.RoleAdmin:
		return auth.AdminLogin(c, identifier, password)
	case models.RoleDoctor:
		return auth.DoctorLogin(c, identifier, password)
	default:
		return auth.PatientLogin(c, identifier, password)
	}
}
