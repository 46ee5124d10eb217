package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/clinicdesk/internal/config"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/dashboard"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/nav"
	"github.com/julianstephens/clinicdesk/internal/router"
	"github.com/julianstephens/clinicdesk/internal/services"
	"github.com/julianstephens/clinicdesk/internal/session"
	"github.com/julianstephens/clinicdesk/internal/tui/components/apptable"
	"github.com/julianstephens/clinicdesk/internal/views"
)

// Deps are the collaborators the TUI drives.
type Deps struct {
	Session  session.Store
	Services *services.Services
	Config   *config.Config
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

var roleChoices = []models.Role{models.RoleAdmin, models.RoleDoctor, models.RolePatient}

type recordState struct {
	patient       models.PatientSummary
	doctorID      int64
	appointments  []models.Appointment
	prescriptions map[int64][]models.Prescription
}

type Model struct {
	deps     Deps
	ctx      context.Context
	state    constants.SessionState
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	quitting bool
	width    int
	height   int

	roleCursor int

	directory    *dashboard.DoctorDirectory
	cardCursor   int
	doctorDash   *dashboard.DoctorDashboard
	table        apptable.Model
	patientAppts *dashboard.PatientAppointments
	apptCursor   int
	record       *recordState
	prescription *models.Prescription
	loading      bool

	form              *huh.Form
	formKind          formKind
	loginForm         *LoginFormModel
	signupForm        *SignupFormModel
	doctorForm        *DoctorFormModel
	bookingForm       *BookingFormModel
	prescriptionForm  *PrescriptionFormModel
	directoryFilter   *DirectoryFilterModel
	appointmentFilter *AppointmentFilterModel
	patientFilter     *PatientFilterModel
	confirmForm       *ConfirmationFormModel
	pendingAction     func() tea.Cmd

	flash    string
	flashErr bool
}

func NewModel(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		deps:    deps,
		ctx:     context.Background(),
		state:   constants.StateRoleSelect,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		table:   apptable.New(0, constants.DefaultPageSize+1),
	}
}

func (m Model) Init() tea.Cmd {
	sess := m.deps.Session
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return outcomesMsg{outcomes: []views.Outcome{views.Navigate{Target: router.Resolve(sess)}}}
	})
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateAdminDashboard:
		keys = append(keys, m.keys.Enter, m.keys.Filter, m.keys.Add, m.keys.Logout)
	case constants.StateDoctorDashboard:
		keys = append(keys, m.keys.Enter, m.keys.Prescription, m.keys.Filter, m.keys.Today, m.keys.NextPage, m.keys.PrevPage, m.keys.Logout)
	case constants.StatePatientDashboard:
		keys = append(keys, m.keys.Enter, m.keys.Filter)
		if m.deps.Session.Role() == models.RoleLoggedPatient {
			keys = append(keys, m.keys.Appointments, m.keys.Logout)
		} else {
			keys = append(keys, m.keys.Login, m.keys.Signup)
		}
	case constants.StatePatientAppointments:
		keys = append(keys, m.keys.Filter, m.keys.NextPage, m.keys.PrevPage, m.keys.Back)
	case constants.StatePatientRecord:
		keys = append(keys, m.keys.Back)
	case constants.StatePrescription:
		keys = append(keys, m.keys.Export, m.keys.Back)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp(), {m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Refresh}}
}

// navigator checks that a target can be shown before the host moves there.
type navigator struct{}

func (navigator) Navigate(t nav.Target) error {
	switch t.View {
	case nav.ViewPatientRecord:
		if t.Int("id") <= 0 {
			return fmt.Errorf("missing patient id")
		}
	case nav.ViewAddPrescription:
		if t.Int("appointmentId") <= 0 {
			return fmt.Errorf("missing appointment id")
		}
	}
	if t.View.String() == "" {
		return fmt.Errorf("unknown view %d", t.View)
	}
	return nil
}

func (m *Model) setFlash(msg string, isErr bool) {
	m.flash = msg
	m.flashErr = isErr
}

func (m *Model) pageSize() int {
	if m.deps.Config.UI.PageSize > 0 {
		return m.deps.Config.UI.PageSize
	}
	return constants.DefaultPageSize
}
