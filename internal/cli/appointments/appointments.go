package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/dashboard"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/storage"
	"github.com/julianstephens/clinicdesk/internal/tui"
	"github.com/julianstephens/clinicdesk/internal/views"
)

// ListCmd prints the doctor's appointments for a date, one page at a time.
type ListCmd struct {
	Date   string `help:"Appointment date (YYYY-MM-DD). Defaults to today."`
	Name   string `help:"Patient name filter."`
	Status string `help:"Status filter (pending or consulted)."`
	Page   int    `help:"Page to show." default:"1"`
	Resume bool   `help:"Use the date of the previous listing."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	status := strings.ToLower(strings.TrimSpace(c.Status))
	switch status {
	case "", string(models.StatusPending), string(models.StatusConsulted):
	default:
		return fmt.Errorf("invalid status %q, use pending or consulted", c.Status)
	}

	date := strings.TrimSpace(c.Date)
	if date == "" && c.Resume {
		last, err := storage.GetOr(ctx.Store, constants.StoreKeyLastDate, "")
		if err != nil {
			return err
		}
		date = last
	}
	if date != "" {
		if _, err := time.Parse(constants.DateFormat, date); err != nil {
			return fmt.Errorf("invalid date %q, use YYYY-MM-DD", date)
		}
	}

	dash := dashboard.NewDoctorDashboard(ctx.Services.Appointments, ctx.Session,
		dashboard.WithPageSize(ctx.Config.UI.PageSize),
		dashboard.WithBannerDuration(ctx.Config.BannerDuration()),
	)
	dash.SetAxes(date, c.Name, status)
	if err := dash.Load(context.Background()); err != nil {
		return cli.Fail(err)
	}

	v := dash.View()
	if err := ctx.Store.Set(constants.StoreKeyLastDate, v.Date); err != nil {
		return fmt.Errorf("failed to remember date: %w", err)
	}
	for i := 1; i < c.Page; i++ {
		if !dash.NextPage() {
			break
		}
	}
	v = dash.View()

	ctx.Printf("Appointments for %s\n", v.Date)
	if v.Banner != "" {
		return errors.New(v.Banner)
	}
	if v.Table.Placeholder != "" {
		ctx.Println(v.Table.Placeholder)
		return nil
	}

	t := table.New().Headers(views.PatientColumns...)
	for _, row := range v.Table.Rows {
		cells := row.Cells()
		cells[len(cells)-1] = fmt.Sprintf("appointment %d", row.AppointmentID)
		t.Row(cells...)
	}
	ctx.Println(t.Render())
	if v.Pager.Visible() {
		ctx.Println(v.Pager.Label())
	}
	return nil
}

// BookCmd books an appointment with a doctor for the logged-in patient.
type BookCmd struct {
	Doctor  int64  `required:"" help:"Doctor ID."`
	Patient int64  `help:"Patient ID. Defaults to the logged-in patient."`
	Date    string `help:"Appointment date (YYYY-MM-DD). Defaults to today."`
	Slot    string `required:"" help:"Time slot, e.g. 09:00-10:00."`
}

func (c *BookCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	patient := models.Patient{ID: c.Patient}
	if patient.ID == 0 {
		p := ctx.Services.Patients.Profile(bg)
		if p == nil {
			return errors.New(constants.MsgPatientUnavailable)
		}
		patient = *p
	}
	date := c.Date
	if date == "" {
		date = time.Now().Format(constants.DateFormat)
	}

	fm := &tui.BookingFormModel{
		Doctor:  models.Doctor{ID: c.Doctor},
		Patient: patient,
		Date:    date,
		Slot:    c.Slot,
	}
	res, err := ctx.Services.Appointments.Book(bg, fm.Request())
	return ctx.Mutation(res, err, "Failed to book appointment: ")
}

// UpdateCmd replaces an appointment's time or status.
type UpdateCmd struct {
	ID      int64  `arg:"" help:"Appointment ID."`
	Doctor  int64  `required:"" help:"Doctor ID."`
	Patient int64  `required:"" help:"Patient ID."`
	Time    string `required:"" help:"Appointment time (YYYY-MM-DDTHH:MM:SS)."`
	Status  string `help:"New status." enum:"pending,consulted" default:"pending"`
}

func (c *UpdateCmd) Run(ctx *cli.Context) error {
	if _, err := time.Parse(constants.AppointmentTimeFormat, c.Time); err != nil {
		return fmt.Errorf("invalid time %q, use YYYY-MM-DDTHH:MM:SS", c.Time)
	}
	status := 0
	if models.NormalizeStatus(c.Status) == models.StatusConsulted {
		status = 1
	}
	res, err := ctx.Services.Appointments.Update(context.Background(), models.AppointmentRequest{
		ID:              c.ID,
		Doctor:          models.Ref{ID: c.Doctor},
		Patient:         models.Ref{ID: c.Patient},
		AppointmentTime: c.Time,
		Status:          status,
	})
	return ctx.Mutation(res, err, "Failed to update appointment: ")
}

type CancelCmd struct {
	ID int64 `arg:"" help:"Appointment ID."`
}

func (c *CancelCmd) Run(ctx *cli.Context) error {
	res := ctx.Services.Appointments.Cancel(context.Background(), c.ID)
	return ctx.Mutation(res, nil, "Failed to cancel appointment: ")
}
