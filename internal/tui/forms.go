package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/models"
)

type formKind int

const (
	formNone formKind = iota
	formLogin
	formSignup
	formAddDoctor
	formBooking
	formPrescription
	formDirectoryFilter
	formAppointmentFilter
	formPatientFilter
	formConfirm
)

type LoginFormModel struct {
	Role       models.Role
	Identifier string
	Password   string
}

type SignupFormModel struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

type DoctorFormModel struct {
	Name      string
	Email     string
	Phone     string
	Password  string
	Specialty string
	Slots     []string
}

type BookingFormModel struct {
	Doctor  models.Doctor
	Patient models.Patient
	Date    string
	Slot    string
}

type PrescriptionFormModel struct {
	AppointmentID int64
	PatientName   string
	Medication    string
	Dosage        string
	Notes         string
}

type DirectoryFilterModel struct {
	Name      string
	Time      string
	Specialty string
}

type AppointmentFilterModel struct {
	Date   string
	Name   string
	Status string
}

type PatientFilterModel struct {
	Condition models.AppointmentCondition
	Name      string
}

type ConfirmationFormModel struct {
	Message   string
	Confirmed bool
}

func validDate(s string) error {
	if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// NewLoginForm creates the login form for fm.Role. Patients log in with
// their email or phone number.
func NewLoginForm(fm *LoginFormModel) *huh.Form {
	identifier := "Email"
	switch fm.Role {
	case models.RoleAdmin:
		identifier = "Username"
	case models.RolePatient, models.RoleLoggedPatient:
		identifier = "Email or phone"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(identifier).
				Value(&fm.Identifier),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password),
		).Title(strings.ToUpper(fm.Role.String()[:1]) + fm.Role.String()[1:] + " Login"),
	).WithTheme(huh.ThemeDracula())
}

// NewSignupForm creates the patient signup form
func NewSignupForm(fm *SignupFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&fm.Name),
			huh.NewInput().Title("Email").Value(&fm.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&fm.Password),
			huh.NewInput().Title("Phone").Value(&fm.Phone),
			huh.NewInput().Title("Address").Value(&fm.Address),
		).Title("Patient Sign Up"),
	).WithTheme(huh.ThemeDracula())
}

// NewDoctorForm creates the admin's add-doctor form
func NewDoctorForm(fm *DoctorFormModel) *huh.Form {
	specialties := make([]huh.Option[string], 0, len(constants.Specialties))
	for _, s := range constants.Specialties {
		specialties = append(specialties, huh.NewOption(s, s))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&fm.Name),
			huh.NewInput().Title("Email").Value(&fm.Email),
			huh.NewInput().Title("Phone").Value(&fm.Phone),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&fm.Password),
		).Title("Add Doctor"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Specialty").
				Options(specialties...).
				Value(&fm.Specialty),
			huh.NewMultiSelect[string]().
				Title("Available Times").
				Options(huh.NewOptions(constants.AvailabilitySlots...)...).
				Value(&fm.Slots),
		),
	).WithTheme(huh.ThemeDracula())
}

func (fm *DoctorFormModel) NewDoctor() models.NewDoctor {
	return models.NewDoctor{
		Name:           fm.Name,
		Email:          fm.Email,
		Phone:          fm.Phone,
		Password:       fm.Password,
		Specialty:      fm.Specialty,
		AvailableTimes: fm.Slots,
	}
}

// NewBookingForm creates the appointment booking form. Slots come from the
// doctor's availability, or the standard slots when none are listed.
func NewBookingForm(fm *BookingFormModel) *huh.Form {
	slots := fm.Doctor.AvailableTimes
	if len(slots) == 0 {
		slots = constants.AvailabilitySlots
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Book Appointment").
				Description(fmt.Sprintf("Dr. %s (%s)\nPatient: %s", fm.Doctor.Name, fm.Doctor.Specialty, fm.Patient.Name)),
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&fm.Date).
				Validate(validDate),
			huh.NewSelect[string]().
				Title("Time").
				Options(huh.NewOptions(slots...)...).
				Value(&fm.Slot),
		),
	).WithTheme(huh.ThemeDracula())
}

// Request builds the booking body. The slot's start time is used.
func (fm *BookingFormModel) Request() models.AppointmentRequest {
	start := strings.TrimSpace(strings.SplitN(fm.Slot, "-", 2)[0])
	return models.AppointmentRequest{
		Doctor:          models.Ref{ID: fm.Doctor.ID},
		Patient:         models.Ref{ID: fm.Patient.ID},
		AppointmentTime: strings.TrimSpace(fm.Date) + "T" + start + ":00",
	}
}

// NewPrescriptionForm creates the doctor's prescription form
func NewPrescriptionForm(fm *PrescriptionFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Patient Name").Value(&fm.PatientName),
			huh.NewInput().Title("Medicines").Value(&fm.Medication),
			huh.NewInput().Title("Dosage").Value(&fm.Dosage),
			huh.NewText().Title("Notes").Value(&fm.Notes),
		).Title("Add Prescription"),
	).WithTheme(huh.ThemeDracula())
}

func (fm *PrescriptionFormModel) Prescription() models.Prescription {
	return models.Prescription{
		PatientName:   strings.TrimSpace(fm.PatientName),
		AppointmentID: fm.AppointmentID,
		Medication:    strings.TrimSpace(fm.Medication),
		Dosage:        strings.TrimSpace(fm.Dosage),
		DoctorNotes:   strings.TrimSpace(fm.Notes),
	}
}

// NewDirectoryFilterForm creates the doctor search form
func NewDirectoryFilterForm(fm *DirectoryFilterModel) *huh.Form {
	times := []huh.Option[string]{huh.NewOption("Any time", "")}
	for _, s := range constants.AvailabilitySlots {
		times = append(times, huh.NewOption(s, s))
	}
	specialties := []huh.Option[string]{huh.NewOption("Any specialty", "")}
	for _, s := range constants.Specialties {
		specialties = append(specialties, huh.NewOption(s, s))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Doctor name").Value(&fm.Name),
			huh.NewSelect[string]().Title("Time").Options(times...).Value(&fm.Time),
			huh.NewSelect[string]().Title("Specialty").Options(specialties...).Value(&fm.Specialty),
		).Title("Filter Doctors"),
	).WithTheme(huh.ThemeDracula())
}

// NewAppointmentFilterForm creates the doctor dashboard's filter form
func NewAppointmentFilterForm(fm *AppointmentFilterModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&fm.Date).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return validDate(s)
				}),
			huh.NewInput().Title("Patient name").Value(&fm.Name),
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("All", ""),
					huh.NewOption("Pending", string(models.StatusPending)),
					huh.NewOption("Consulted", string(models.StatusConsulted)),
				).
				Value(&fm.Status),
		).Title("Filter Appointments"),
	).WithTheme(huh.ThemeDracula())
}

// NewPatientFilterForm creates the patient's appointment filter form
func NewPatientFilterForm(fm *PatientFilterModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.AppointmentCondition]().
				Title("Appointments").
				Options(
					huh.NewOption("All", models.ConditionAny),
					huh.NewOption("Upcoming", models.ConditionFuture),
					huh.NewOption("Past", models.ConditionPast),
				).
				Value(&fm.Condition),
			huh.NewInput().Title("Doctor name").Value(&fm.Name),
		).Title("Filter Appointments"),
	).WithTheme(huh.ThemeDracula())
}

// NewConfirmationForm creates a yes/no confirmation
func NewConfirmationForm(fm *ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fm.Message).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
