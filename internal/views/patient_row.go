package views

import (
	"strconv"

	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/logger"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/nav"
)

// PatientColumns are the headers of the doctor's appointment table.
var PatientColumns = []string{"Patient ID", "Name", "Phone", "Email", "Status", "Prescription"}

// Navigator opens a target. It returns an error when the target can't be shown.
type Navigator interface {
	Navigate(nav.Target) error
}

// Row is one appointment in the doctor's table.
type Row struct {
	Patient       models.PatientSummary
	AppointmentID int64
	DoctorID      int64
}

func PatientRow(patient models.PatientSummary, appointmentID, doctorID int64) Row {
	return Row{Patient: patient, AppointmentID: appointmentID, DoctorID: doctorID}
}

// StatusLabel is the capitalized normalized status.
func StatusLabel(status models.AppointmentStatus) string {
	return models.NormalizeStatus(string(status)).Label()
}

// StatusBadge renders the status label colored by status.
func StatusBadge(status models.AppointmentStatus) string {
	style := pendingBadgeStyle
	if models.NormalizeStatus(string(status)) == models.StatusConsulted {
		style = consultedBadgeStyle
	}
	return style.Render(StatusLabel(status))
}

// Cells are the plain cell values, one per PatientColumns entry.
func (r Row) Cells() []string {
	return []string{
		strconv.FormatInt(r.Patient.ID, 10),
		r.Patient.Name,
		r.Patient.Phone,
		r.Patient.Email,
		StatusLabel(r.Patient.Status),
		"+ Add",
	}
}

func (r Row) RecordTarget() nav.Target {
	return nav.PatientRecord(r.Patient.ID, r.DoctorID)
}

func (r Row) PrescriptionTarget() nav.Target {
	return nav.AddPrescription(r.AppointmentID, r.Patient.Name)
}

// OpenRecord navigates to the patient record.
func (r Row) OpenRecord(n Navigator) []Outcome {
	return r.open(n, r.RecordTarget(), constants.MsgOpenRecordFailed)
}

// OpenPrescription navigates to the prescription form.
func (r Row) OpenPrescription(n Navigator) []Outcome {
	return r.open(n, r.PrescriptionTarget(), constants.MsgOpenPrescriptionErr)
}

func (r Row) open(n Navigator, target nav.Target, failMsg string) []Outcome {
	if n != nil {
		if err := n.Navigate(target); err != nil {
			logger.Error("Navigation failed", "target", target.Path(), "error", err)
			return []Outcome{failure(failMsg)}
		}
	}
	return []Outcome{Navigate{Target: target}}
}

// PlaceholderRow renders a single message row spanning every column.
func PlaceholderRow(message string, width int) string {
	return placeholderStyle.Width(width).Render(message)
}

// NoAppointmentsMessage is the empty-table text for date.
func NoAppointmentsMessage(date string) string {
	return "No Appointments found for " + date + "."
}
