package tui

import (
	"github.com/julianstephens/clinicdesk/internal/dashboard"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/nav"
	"github.com/julianstephens/clinicdesk/internal/views"
)

type outcomesMsg struct {
	outcomes []views.Outcome
}

type appointmentsLoadedMsg struct {
	res dashboard.LoadResult
}

type directoryLoadedMsg struct {
	dir     *dashboard.DoctorDirectory
	doctors []models.Doctor
	err     error
}

type patientAppointmentsLoadedMsg struct {
	view *dashboard.PatientAppointments
	res  dashboard.AppointmentsResult
	err  error
}

type loginDoneMsg struct {
	role  models.Role
	token string
	err   error
}

// mutationDoneMsg reports a create/update/delete. On success the model
// moves to next when it is set.
type mutationDoneMsg struct {
	kind formKind
	res  models.MutationResult
	err  error
	next *nav.Target
}

type prescriptionsLoadedMsg struct {
	appointmentID int64
	patientName   string
	prescriptions []models.Prescription
}

type recordLoadedMsg struct {
	prescriptions map[int64][]models.Prescription
}

type bannerExpiredMsg struct{}
