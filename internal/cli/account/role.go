package account

import (
	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/router"
)

// RoleCmd selects a role, as the role selection page does.
type RoleCmd struct {
	Role string `arg:"" enum:"admin,doctor,patient" help:"Role to act as (admin, doctor, patient)."`
}

func (c *RoleCmd) Run(ctx *cli.Context) error {
	role, err := models.ParseRole(c.Role)
	if err != nil {
		return err
	}
	target, err := router.SelectRole(ctx.Session, role)
	if err != nil {
		return err
	}
	ctx.Printf("Role set to %s.\n", role)
	ctx.Printf("Next: %s\n", target.Path())
	return nil
}
