package prescriptions

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/clinicdesk/internal/cli"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/export"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/session"
	"github.com/julianstephens/clinicdesk/internal/tui"
)

// AddCmd writes a prescription for an appointment.
type AddCmd struct {
	Appointment int64  `required:"" help:"Appointment ID."`
	Patient     string `name:"patient-name" help:"Patient name."`
	Medication  string `help:"Medicines."`
	Dosage      string `help:"Dosage."`
	Notes       string `help:"Doctor notes."`
	Form        bool   `help:"Fill in the prescription form interactively."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if err := session.Guard(ctx.Session); err != nil {
		return cli.Fail(err)
	}

	fm := &tui.PrescriptionFormModel{
		AppointmentID: c.Appointment,
		PatientName:   c.Patient,
		Medication:    c.Medication,
		Dosage:        c.Dosage,
		Notes:         c.Notes,
	}
	if c.Form {
		if err := tui.NewPrescriptionForm(fm).Run(); err != nil {
			return fmt.Errorf("prescription cancelled: %w", err)
		}
	}

	res, err := ctx.Services.Prescriptions.Save(context.Background(), fm.Prescription())
	if err != nil {
		return cli.Fail(err)
	}
	if !res.Success {
		return fmt.Errorf("Failed to save prescription. %s", res.Message)
	}
	ctx.Println(constants.MsgPrescriptionSaved)
	return nil
}

type ViewCmd struct {
	Appointment int64 `arg:"" help:"Appointment ID."`
}

func (c *ViewCmd) Run(ctx *cli.Context) error {
	list, err := fetch(ctx, c.Appointment)
	if err != nil {
		return err
	}
	for _, p := range list {
		ctx.Printf("Appointment: %d\n", p.AppointmentID)
		ctx.Printf("Patient:     %s\n", p.PatientName)
		ctx.Printf("Medication:  %s\n", p.Medication)
		ctx.Printf("Dosage:      %s\n", p.Dosage)
		if p.DoctorNotes != "" {
			ctx.Printf("Notes:       %s\n", p.DoctorNotes)
		}
	}
	return nil
}

// ExportCmd writes an appointment's prescriptions to a PDF file.
type ExportCmd struct {
	Appointment int64  `arg:"" help:"Appointment ID."`
	PDF         string `name:"pdf" required:"" type:"path" help:"Output PDF file."`
	Doctor      string `help:"Doctor name printed in the header."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	list, err := fetch(ctx, c.Appointment)
	if err != nil {
		return err
	}
	header := export.Header{DoctorName: c.Doctor, Generated: time.Now()}
	if err := export.WritePrescriptionPDF(c.PDF, header, list); err != nil {
		return fmt.Errorf("failed to export prescription: %w", err)
	}
	ctx.Printf("Prescription exported to %s\n", c.PDF)
	return nil
}

func fetch(ctx *cli.Context, appointmentID int64) ([]models.Prescription, error) {
	if err := session.Guard(ctx.Session); err != nil {
		return nil, cli.Fail(err)
	}
	list := ctx.Services.Prescriptions.Get(context.Background(), appointmentID)
	if len(list) == 0 {
		return nil, fmt.Errorf("no prescription found for appointment %d", appointmentID)
	}
	return list, nil
}
