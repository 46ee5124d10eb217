package doctors

import (
	"context"
	"fmt"

	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/dashboard"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/tui"
	"github.com/julianstephens/clinicdesk/internal/views"
)

// directory opens the doctor directory the session's role would see.
func directory(ctx *cli.Context) *dashboard.DoctorDirectory {
	if ctx.Session.Role() == models.RoleAdmin {
		return dashboard.NewAdminDashboard(ctx.Services.Doctors, ctx.Session)
	}
	return dashboard.NewPatientDashboard(ctx.Services.Doctors, ctx.Services.Patients, ctx.Session)
}

func printCards(ctx *cli.Context, dir *dashboard.DoctorDirectory) {
	cards := dir.Cards().Cards()
	if len(cards) == 0 {
		ctx.Println(dir.Placeholder())
		return
	}
	ctx.Println("Doctors:")
	for _, card := range cards {
		d := card.Doctor
		ctx.Printf("  [%d] Dr. %s - %s\n", d.ID, d.Name, d.Specialty)
		ctx.Printf("      Email: %s\n", d.Email)
		ctx.Printf("      Available Times: %s\n", card.Availability())
	}
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	dir := directory(ctx)
	if err := dir.Load(context.Background()); err != nil {
		return cli.Fail(err)
	}
	printCards(ctx, dir)
	return nil
}

// FilterCmd searches doctors by name, time slot and specialty. Only the
// criteria given are sent.
type FilterCmd struct {
	Name      string `help:"Doctor name."`
	Time      string `help:"Available time slot, e.g. 09:00-10:00."`
	Specialty string `help:"Specialty, e.g. cardiologist."`
}

func (c *FilterCmd) Run(ctx *cli.Context) error {
	dir := directory(ctx)
	if err := dir.SetFilter(context.Background(), c.Name, c.Time, c.Specialty); err != nil {
		return cli.Fail(err)
	}
	printCards(ctx, dir)
	return nil
}

// AddCmd creates a doctor. Admin only.
type AddCmd struct {
	Name      string   `help:"Doctor name."`
	Email     string   `help:"Email address."`
	Phone     string   `help:"Phone number."`
	Password  string   `help:"Initial password."`
	Specialty string   `help:"Specialty."`
	Times     []string `help:"Available time slots, e.g. 09:00-10:00." sep:","`
	Form      bool     `help:"Fill in the add-doctor form interactively."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if ctx.Session.Role() != models.RoleAdmin {
		return fmt.Errorf("only admins can add doctors, run 'clinicdesk role admin' and log in")
	}

	fm := &tui.DoctorFormModel{
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Password:  c.Password,
		Specialty: c.Specialty,
		Slots:     c.Times,
	}
	if c.Form {
		if err := tui.NewDoctorForm(fm).Run(); err != nil {
			return fmt.Errorf("add doctor cancelled: %w", err)
		}
	}

	dir := directory(ctx)
	res, err := dir.AddDoctor(context.Background(), fm.NewDoctor())
	return ctx.Mutation(res, err, "Failed to add doctor: ")
}

// DeleteCmd removes a doctor through the admin card's delete action.
type DeleteCmd struct {
	ID  int64 `arg:"" help:"Doctor ID."`
	Yes bool  `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if ctx.Session.Role() != models.RoleAdmin {
		return fmt.Errorf("only admins can delete doctors")
	}

	bg := context.Background()
	dir := directory(ctx)
	if err := dir.Load(bg); err != nil {
		return cli.Fail(err)
	}

	var card *views.Card
	for _, candidate := range dir.Cards().Cards() {
		if candidate.Doctor.ID == c.ID {
			card = candidate
			break
		}
	}
	if card == nil || card.Action == nil {
		return fmt.Errorf("doctor %d not found", c.ID)
	}

	if !c.Yes && card.Action.Confirm != "" {
		fm := &tui.ConfirmationFormModel{Message: card.Action.Confirm}
		if err := tui.NewConfirmationForm(fm).Run(); err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !fm.Confirmed {
			ctx.Println("Deletion cancelled.")
			return nil
		}
	}

	return ctx.Report(card.Action.Run(bg))
}
