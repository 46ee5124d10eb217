package account

import (
	"context"
	"fmt"

	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/tui"
)

// SignupCmd registers a patient account.
type SignupCmd struct {
	Name     string `help:"Full name."`
	Email    string `help:"Email address."`
	Password string `help:"Password."`
	Phone    string `help:"Phone number."`
	Address  string `help:"Postal address."`
	Form     bool   `help:"Fill in the signup form interactively."`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	fm := &tui.SignupFormModel{Name: c.Name, Email: c.Email, Password: c.Password, Phone: c.Phone, Address: c.Address}
	if c.Form {
		if err := tui.NewSignupForm(fm).Run(); err != nil {
			return fmt.Errorf("signup cancelled: %w", err)
		}
	}

	res, err := ctx.Services.Patients.Signup(context.Background(), models.PatientSignup{
		Name:     fm.Name,
		Email:    fm.Email,
		Password: fm.Password,
		Phone:    fm.Phone,
		Address:  fm.Address,
	})
	if err := ctx.Mutation(res, err, ""); err != nil {
		return err
	}
	ctx.Println("Log in with 'clinicdesk login patient'.")
	return nil
}
