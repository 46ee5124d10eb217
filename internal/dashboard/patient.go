package dashboard

import (
	"context"
	"strings"

	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/session"
)

// PatientSource is the patient service as the appointments view uses it.
type PatientSource interface {
	Profile(ctx context.Context) *models.Patient
	Appointments(ctx context.Context, patientID int64) []models.Appointment
	FilterAppointments(ctx context.Context, f models.PatientAppointmentFilter) (models.AppointmentList, error)
}

// PatientAppointments lists the logged-in patient's own appointments.
type PatientAppointments struct {
	patients PatientSource
	sess     session.Store

	profile      *models.Patient
	filter       models.PatientAppointmentFilter
	appointments []models.Appointment
	pager        Pager
	message      string
}

func NewPatientAppointments(patients PatientSource, sess session.Store) *PatientAppointments {
	return &PatientAppointments{
		patients: patients,
		sess:     sess,
		pager:    NewPager(constants.DefaultPageSize),
	}
}

// AppointmentsResult is one fetch of the patient's profile and appointments.
type AppointmentsResult struct {
	Profile      *models.Patient
	Appointments []models.Appointment
}

// Load fetches the profile and then that patient's appointments.
func (p *PatientAppointments) Load(ctx context.Context) error {
	res, err := p.Fetch(ctx)
	if err != nil {
		return err
	}
	p.Show(res)
	return nil
}

// Fetch checks the session and queries without touching the view state.
func (p *PatientAppointments) Fetch(ctx context.Context) (AppointmentsResult, error) {
	if err := session.Guard(p.sess); err != nil {
		return AppointmentsResult{}, err
	}

	profile := p.patients.Profile(ctx)
	if profile == nil {
		return AppointmentsResult{}, nil
	}
	res := AppointmentsResult{Profile: profile}
	if p.filter.Condition == models.ConditionAny && p.filter.Name == "" {
		res.Appointments = p.patients.Appointments(ctx, profile.ID)
		return res, nil
	}
	list, err := p.patients.FilterAppointments(ctx, p.filter)
	if err != nil {
		return AppointmentsResult{}, err
	}
	res.Appointments = list.Appointments
	return res, nil
}

// Show folds a fetch into the view and resets to page 1.
func (p *PatientAppointments) Show(res AppointmentsResult) {
	p.profile = res.Profile
	p.appointments = res.Appointments
	p.pager.Reset(len(p.appointments))

	switch {
	case res.Profile == nil:
		p.message = constants.MsgPatientUnavailable
	case len(p.appointments) == 0:
		p.message = "No appointments found."
	default:
		p.message = ""
	}
}

// SetFilter changes the condition and doctor-name criteria and reloads.
func (p *PatientAppointments) SetFilter(ctx context.Context, condition models.AppointmentCondition, name string) error {
	if err := p.SetCriteria(condition, name); err != nil {
		return err
	}
	return p.Load(ctx)
}

// SetCriteria validates and stores the filter without loading.
func (p *PatientAppointments) SetCriteria(condition models.AppointmentCondition, name string) error {
	filter := models.PatientAppointmentFilter{Condition: condition, Name: strings.TrimSpace(name)}
	if err := models.Validate(filter); err != nil {
		return err
	}
	p.filter = filter
	return nil
}

func (p *PatientAppointments) Filter() models.PatientAppointmentFilter {
	return p.filter
}

func (p *PatientAppointments) Profile() *models.Patient {
	return p.profile
}

// Page returns the appointments on the current page.
func (p *PatientAppointments) Page() []models.Appointment {
	return Window(p.appointments, p.pager)
}

func (p *PatientAppointments) Pager() Pager {
	return p.pager
}

func (p *PatientAppointments) NextPage() bool {
	return p.pager.Next()
}

func (p *PatientAppointments) PrevPage() bool {
	return p.pager.Prev()
}

// Message is the placeholder text shown instead of a table, if any.
func (p *PatientAppointments) Message() string {
	return p.message
}
