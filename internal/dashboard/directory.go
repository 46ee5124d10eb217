package dashboard

import (
	"context"
	"errors"
	"strings"

	"github.com/julianstephens/clinicdesk/internal/constants"
	apperrors "github.com/julianstephens/clinicdesk/internal/errors"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/session"
	"github.com/julianstephens/clinicdesk/internal/views"
)

// DoctorSource is the doctor service as the directory uses it.
type DoctorSource interface {
	List(ctx context.Context) []models.Doctor
	Filter(ctx context.Context, f models.DoctorFilter) models.DoctorList
	Save(ctx context.Context, d models.NewDoctor) (models.MutationResult, error)
	Delete(ctx context.Context, id int64) models.MutationResult
}

// DoctorDirectory is the card grid of doctors shown to admins and patients.
// The role decides which action each card carries.
type DoctorDirectory struct {
	role     models.Role
	doctors  DoctorSource
	patients views.ProfileFetcher
	sess     session.Store

	filter models.DoctorFilter
	cards  *views.CardList
}

// NewAdminDashboard is the directory with delete actions and doctor creation.
func NewAdminDashboard(doctors DoctorSource, sess session.Store) *DoctorDirectory {
	return &DoctorDirectory{
		role:    models.RoleAdmin,
		doctors: doctors,
		sess:    sess,
		cards:   views.NewCardList(),
	}
}

// NewPatientDashboard is the directory for anonymous or logged-in patients,
// depending on the session's role.
func NewPatientDashboard(doctors DoctorSource, patients views.ProfileFetcher, sess session.Store) *DoctorDirectory {
	role := sess.Role()
	if role != models.RoleLoggedPatient {
		role = models.RolePatient
	}
	return &DoctorDirectory{
		role:     role,
		doctors:  doctors,
		patients: patients,
		sess:     sess,
		cards:    views.NewCardList(),
	}
}

func (d *DoctorDirectory) Role() models.Role {
	return d.role
}

// Load fetches doctors for the current filter and rebuilds the cards.
func (d *DoctorDirectory) Load(ctx context.Context) error {
	doctors, err := d.Fetch(ctx)
	if err != nil {
		return err
	}
	d.Show(doctors)
	return nil
}

// Fetch checks the session and queries doctors for the current filter
// without touching the cards.
func (d *DoctorDirectory) Fetch(ctx context.Context) ([]models.Doctor, error) {
	if err := session.Guard(d.sess); err != nil {
		return nil, err
	}
	if d.filter.Empty() {
		return d.doctors.List(ctx), nil
	}
	return d.doctors.Filter(ctx, d.filter).Doctors, nil
}

// Show replaces the cards with doctors.
func (d *DoctorDirectory) Show(doctors []models.Doctor) {
	deps := views.CardDeps{Doctors: d.doctors, Patients: d.patients, Session: d.sess}
	list := views.NewCardList()
	for _, doc := range doctors {
		list.Add(views.DoctorCard(doc, d.role, deps))
	}
	d.cards = list
}

// SetFilter replaces the search criteria and reloads. Blank values are dropped.
func (d *DoctorDirectory) SetFilter(ctx context.Context, name, slot, specialty string) error {
	d.SetCriteria(name, slot, specialty)
	return d.Load(ctx)
}

// SetCriteria replaces the search criteria without loading.
func (d *DoctorDirectory) SetCriteria(name, slot, specialty string) {
	d.filter = models.DoctorFilter{
		Name:      strings.TrimSpace(name),
		Time:      strings.TrimSpace(slot),
		Specialty: strings.TrimSpace(specialty),
	}
}

func (d *DoctorDirectory) Filter() models.DoctorFilter {
	return d.filter
}

func (d *DoctorDirectory) Cards() *views.CardList {
	return d.cards
}

// Placeholder is the text shown when no cards remain.
func (d *DoctorDirectory) Placeholder() string {
	return constants.MsgNoDoctors
}

// AddDoctor validates the form, checks the session and creates the doctor.
// On success the directory reloads.
func (d *DoctorDirectory) AddDoctor(ctx context.Context, form models.NewDoctor) (models.MutationResult, error) {
	form, err := d.PrepareDoctor(form)
	if err != nil {
		return models.MutationResult{}, err
	}

	res, err := d.doctors.Save(ctx, form)
	if err != nil {
		return res, err
	}
	if res.Success {
		if err := d.Load(ctx); err != nil {
			return res, err
		}
	}
	return res, nil
}

// PrepareDoctor trims and validates the add-doctor form and checks that an
// admin token is held. Nothing is sent.
func (d *DoctorDirectory) PrepareDoctor(form models.NewDoctor) (models.NewDoctor, error) {
	if d.role != models.RoleAdmin {
		return form, errors.New("only admins can add doctors")
	}
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Password = strings.TrimSpace(form.Password)

	if err := models.Validate(form); err != nil {
		return form, err
	}
	if d.sess.Token() == "" {
		return form, apperrors.ErrSessionInvalid
	}
	return form, nil
}

// Save sends a prepared form.
func (d *DoctorDirectory) Save(ctx context.Context, form models.NewDoctor) (models.MutationResult, error) {
	return d.doctors.Save(ctx, form)
}
