package account

import (
	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/router"
	"github.com/julianstephens/clinicdesk/internal/session"
	"github.com/julianstephens/clinicdesk/internal/storage"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	s := session.Current(ctx.Session)
	ctx.Printf("Role:  %s\n", s.Role)
	if s.HasToken() {
		ctx.Println("Token: present")
	} else {
		ctx.Println("Token: none")
	}
	if !s.Valid() {
		ctx.Println("State: invalid, the next command will log out")
	}
	ctx.Printf("Route: %s\n", router.Route(s.Role, s.HasToken()).Path())

	date, err := storage.GetOr(ctx.Store, constants.StoreKeyLastDate, "")
	if err != nil {
		return err
	}
	if date != "" {
		ctx.Printf("Last appointment date: %s\n", date)
	}
	return nil
}
