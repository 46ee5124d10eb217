package patients

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/clinicdesk/internal/constants"
	apperrors "github.com/julianstephens/clinicdesk/internal/errors"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/testutil/clitest"
)

func newEnv(t *testing.T) (*clitest.Env, models.Patient, models.Doctor) {
	t.Helper()
	env := clitest.New(t, models.RoleLoggedPatient, "pat@example.com")
	p := env.Srv.AddPatient(models.Patient{
		Name:    "Pat Doe",
		Email:   "pat@example.com",
		Phone:   "5551234567",
		Address: "1 Main St",
	}, "pw")
	d := env.Srv.AddDoctor(models.Doctor{Name: "Alice Heart", Email: "alice@clinic.test"}, "pw")
	return env, p, d
}

func TestProfileCmd(t *testing.T) {
	env, p, _ := newEnv(t)

	cmd := &ProfileCmd{}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("ProfileCmd.Run() failed: %v", err)
	}
	out := env.Out.String()
	for _, want := range []string{p.Name, p.Email, p.Phone, p.Address} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProfileCmdUnknownPatient(t *testing.T) {
	env := clitest.New(t, models.RoleLoggedPatient, "ghost@example.com")

	cmd := &ProfileCmd{}
	err := cmd.Run(env.Ctx)
	if err == nil || err.Error() != constants.MsgPatientUnavailable {
		t.Fatalf("ProfileCmd.Run() error = %v, want %q", err, constants.MsgPatientUnavailable)
	}
}

func TestProfileCmdWithoutToken(t *testing.T) {
	env := clitest.New(t, models.RoleLoggedPatient, "")

	cmd := &ProfileCmd{}
	if err := cmd.Run(env.Ctx); !errors.Is(err, apperrors.ErrSessionInvalid) {
		t.Fatalf("ProfileCmd.Run() error = %v, want ErrSessionInvalid", err)
	}
	if len(env.Srv.Calls()) != 0 {
		t.Error("no request should be sent without a token")
	}
}

func TestAppointmentsCmd(t *testing.T) {
	env, p, d := newEnv(t)
	env.Srv.AddAppointment(models.Appointment{
		PatientID:       p.ID,
		PatientName:     p.Name,
		DoctorID:        d.ID,
		DoctorName:      d.Name,
		AppointmentTime: "2024-03-01T09:00:00",
		Status:          models.StatusConsulted,
	})

	cmd := &AppointmentsCmd{Page: 1}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("AppointmentsCmd.Run() failed: %v", err)
	}
	out := env.Out.String()
	if !strings.Contains(out, "2024-03-01T09:00:00 with Dr. Alice Heart") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if len(env.Srv.CallsTo("GET", "/patient/appointments")) != 1 {
		t.Error("expected the unfiltered appointments endpoint")
	}
}

func TestAppointmentsCmdEmpty(t *testing.T) {
	env, _, _ := newEnv(t)

	cmd := &AppointmentsCmd{Page: 1}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("AppointmentsCmd.Run() failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "No appointments found.") {
		t.Errorf("unexpected output: %q", env.Out.String())
	}
}

func TestFilterCmd(t *testing.T) {
	env, p, d := newEnv(t)
	env.Srv.AddAppointment(models.Appointment{
		PatientID:       p.ID,
		DoctorID:        d.ID,
		DoctorName:      d.Name,
		AppointmentTime: "2020-01-01T09:00:00",
	})
	env.Srv.AddAppointment(models.Appointment{
		PatientID:       p.ID,
		DoctorID:        d.ID,
		DoctorName:      d.Name,
		AppointmentTime: "2999-01-01T09:00:00",
	})

	cmd := &FilterCmd{Condition: "past", Page: 1}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("FilterCmd.Run() failed: %v", err)
	}

	calls := env.Srv.CallsTo("GET", "/patient/filter")
	if len(calls) != 1 || calls[0].Query.Get("condition") != "past" || calls[0].Query.Has("name") {
		t.Fatalf("unexpected filter calls: %+v", calls)
	}
	out := env.Out.String()
	if !strings.Contains(out, "2020-01-01") || strings.Contains(out, "2999-01-01") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestFilterCmdInvalidCondition(t *testing.T) {
	env, _, _ := newEnv(t)

	cmd := &FilterCmd{Condition: "someday", Page: 1}
	err := cmd.Run(env.Ctx)
	if !apperrors.IsValidation(err) {
		t.Fatalf("FilterCmd.Run() error = %v, want a validation error", err)
	}
	if len(env.Srv.Calls()) != 0 {
		t.Error("no request should be sent for an invalid condition")
	}
}
