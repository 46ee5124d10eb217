package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/clinicdesk/internal/api"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/nav"
	"github.com/julianstephens/clinicdesk/internal/services"
	"github.com/julianstephens/clinicdesk/internal/session"
	"github.com/julianstephens/clinicdesk/internal/testutil/fakeapi"
	"github.com/julianstephens/clinicdesk/internal/views"
)

func newTestModel(t *testing.T, role models.Role, subject string) (*fakeapi.Server, *session.Memory, Model) {
	t.Helper()
	srv := fakeapi.New(t)
	sess := session.NewMemory(role, "")
	if subject != "" {
		require.NoError(t, sess.SetToken(srv.Token(subject, string(role))))
	}
	m := NewModel(Deps{
		Session:  sess,
		Services: services.New(api.New(srv.URL, sess), time.Minute),
		Now:      func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
	return srv, sess, m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestNavigatorValidatesTargets(t *testing.T) {
	var n navigator
	assert.NoError(t, n.Navigate(nav.PatientRecord(7, 3)))
	assert.NoError(t, n.Navigate(nav.AddPrescription(12, "Pat Doe")))
	assert.Error(t, n.Navigate(nav.PatientRecord(0, 3)))
	assert.Error(t, n.Navigate(nav.AddPrescription(0, "Pat Doe")))
	assert.Error(t, n.Navigate(nav.Target{View: nav.View(99)}))
}

func TestRoleSelectOpensLogin(t *testing.T) {
	_, sess, m := newTestModel(t, models.RoleNone, "")
	m.enter(nav.To(nav.ViewRoleSelect))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, constants.StateLogin, m.state)
	assert.Equal(t, formLogin, m.formKind)
	require.NotNil(t, m.loginForm)
	assert.Equal(t, models.RoleDoctor, m.loginForm.Role)
	assert.Equal(t, models.RoleDoctor, sess.Role())
}

func TestForceLogoutToPatientDashboard(t *testing.T) {
	_, sess, m := newTestModel(t, models.RoleLoggedPatient, "")

	cmd := m.applyOutcomes([]views.Outcome{views.ForceLogout{Target: nav.To(nav.ViewPatientDashboard)}})

	assert.NotNil(t, cmd)
	assert.Equal(t, constants.StatePatientDashboard, m.state)
	assert.Equal(t, models.RolePatient, sess.Role())
	require.NotNil(t, m.directory)
	assert.Equal(t, models.RolePatient, m.directory.Role())
}

func TestDoctorDashboardLoadAndOpenRecord(t *testing.T) {
	srv, _, m := newTestModel(t, models.RoleDoctor, "alice@clinic.test")
	doc := srv.AddDoctor(models.Doctor{Name: "Alice Heart", Email: "alice@clinic.test", Specialty: "cardiologist"}, "pw")
	p := srv.AddPatient(models.Patient{Name: "Pat Doe", Email: "pat@example.com", Phone: "5551234567"}, "pw")
	appt := srv.AddAppointment(models.Appointment{
		PatientID:       p.ID,
		PatientName:     p.Name,
		PatientEmail:    p.Email,
		DoctorID:        doc.ID,
		AppointmentTime: "2024-03-01T09:00:00",
		Status:          models.StatusPending,
	})

	cmd := m.enter(nav.To(nav.ViewDoctorDashboard))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	m, _ = update(t, m, cmd())
	assert.False(t, m.loading)
	row, ok := m.table.Selected()
	require.True(t, ok)
	assert.Equal(t, p.ID, row.Patient.ID)
	assert.Equal(t, appt.ID, row.AppointmentID)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, constants.StatePatientRecord, m.state)
	require.NotNil(t, m.record)
	assert.Equal(t, p.ID, m.record.patient.ID)
	require.Len(t, m.record.appointments, 1)
	require.NotNil(t, cmd)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, constants.StateDoctorDashboard, m.state)
}

func TestDoctorDashboardWithoutTokenReturnsToRoleSelect(t *testing.T) {
	_, sess, m := newTestModel(t, models.RoleDoctor, "")

	cmd := m.enter(nav.To(nav.ViewDoctorDashboard))

	assert.Nil(t, cmd)
	assert.Equal(t, constants.StateRoleSelect, m.state)
	assert.Equal(t, constants.MsgSessionExpired, m.flash)
	assert.Equal(t, models.RoleNone, sess.Role())
}
