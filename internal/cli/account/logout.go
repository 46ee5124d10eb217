package account

import (
	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/router"
)

// LogoutCmd ends the session. A patient stays on the public patient dashboard.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	target, err := router.LogoutFor(ctx.Session)
	if err != nil {
		return err
	}
	ctx.Println(constants.MsgLoggedOut)
	ctx.Printf("Next: %s\n", target.Path())
	return nil
}
