package patients

import (
	"context"
	"errors"

	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/dashboard"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/session"
	"github.com/julianstephens/clinicdesk/internal/views"
)

type ProfileCmd struct{}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	if err := session.Guard(ctx.Session); err != nil {
		return cli.Fail(err)
	}
	p := ctx.Services.Patients.Profile(context.Background())
	if p == nil {
		return errors.New(constants.MsgPatientUnavailable)
	}
	ctx.Printf("ID:      %d\n", p.ID)
	ctx.Printf("Name:    %s\n", p.Name)
	ctx.Printf("Email:   %s\n", p.Email)
	ctx.Printf("Phone:   %s\n", p.Phone)
	ctx.Printf("Address: %s\n", p.Address)
	return nil
}

// AppointmentsCmd lists the logged-in patient's appointments.
type AppointmentsCmd struct {
	Page int `help:"Page to show." default:"1"`
}

func (c *AppointmentsCmd) Run(ctx *cli.Context) error {
	return show(ctx, models.ConditionAny, "", c.Page)
}

// FilterCmd narrows the patient's appointments to past or upcoming ones,
// optionally by doctor name.
type FilterCmd struct {
	Condition string `help:"past or future."`
	Name      string `help:"Doctor name."`
	Page      int    `help:"Page to show." default:"1"`
}

func (c *FilterCmd) Run(ctx *cli.Context) error {
	return show(ctx, models.AppointmentCondition(c.Condition), c.Name, c.Page)
}

func show(ctx *cli.Context, condition models.AppointmentCondition, name string, page int) error {
	view := dashboard.NewPatientAppointments(ctx.Services.Patients, ctx.Session)
	if err := view.SetCriteria(condition, name); err != nil {
		return cli.Fail(err)
	}
	if err := view.Load(context.Background()); err != nil {
		return cli.Fail(err)
	}
	for i := 1; i < page; i++ {
		if !view.NextPage() {
			break
		}
	}

	if msg := view.Message(); msg != "" {
		if view.Profile() == nil {
			return errors.New(msg)
		}
		ctx.Println(msg)
		return nil
	}

	ctx.Println("Appointments:")
	for _, a := range view.Page() {
		ctx.Printf("  [%d] %s with Dr. %s - %s\n", a.ID, a.AppointmentTime, a.DoctorName, views.StatusLabel(a.Status))
	}
	if pager := view.Pager(); pager.Visible() {
		ctx.Println(pager.Label())
	}
	return nil
}
