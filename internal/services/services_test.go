package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/clinicdesk/internal/api"
	"github.com/julianstephens/clinicdesk/internal/constants"
	apperrors "github.com/julianstephens/clinicdesk/internal/errors"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/session"
	"github.com/julianstephens/clinicdesk/internal/testutil/fakeapi"
)

func setup(t *testing.T, role models.Role, subject string) (*fakeapi.Server, *Services, *session.Memory) {
	t.Helper()
	srv := fakeapi.New(t)
	token := ""
	if subject != "" {
		token = srv.Token(subject, string(role))
	}
	sess := session.NewMemory(role, token)
	client := api.New(srv.URL, sess)
	return srv, New(client, time.Minute), sess
}

func seedDoctors(srv *fakeapi.Server) (models.Doctor, models.Doctor) {
	a := srv.AddDoctor(models.Doctor{
		Name:           "Alice Heart",
		Email:          "alice@clinic.test",
		Phone:          "5550001111",
		Specialty:      "cardiologist",
		AvailableTimes: []string{"09:00-10:00", "10:00-11:00"},
	}, "secret")
	b := srv.AddDoctor(models.Doctor{
		Name:           "Bob Skin",
		Email:          "bob@clinic.test",
		Phone:          "5550002222",
		Specialty:      "dermatologist",
		AvailableTimes: []string{"11:00-12:00"},
	}, "secret")
	return a, b
}

func TestDoctorFilterSendsOnlySetCriteria(t *testing.T) {
	srv, svc, _ := setup(t, models.RolePatient, "")
	alice, _ := seedDoctors(srv)

	got := svc.Doctors.Filter(context.Background(), models.DoctorFilter{Specialty: "cardiologist"})

	calls := srv.CallsTo(http.MethodGet, "/doctor/filter")
	require.Len(t, calls, 1)
	assert.Equal(t, "cardiologist", calls[0].Query.Get("specialty"))
	assert.Len(t, calls[0].Query, 1, "name and time must not be sent")

	require.Len(t, got.Doctors, 1)
	assert.Equal(t, alice.ID, got.Doctors[0].ID)
}

func TestDoctorFilterEmptyFallsBackToList(t *testing.T) {
	srv, svc, _ := setup(t, models.RolePatient, "")
	seedDoctors(srv)

	got := svc.Doctors.Filter(context.Background(), models.DoctorFilter{})
	assert.Len(t, got.Doctors, 2)
	assert.Len(t, srv.CallsTo(http.MethodGet, "/doctor"), 1)
	assert.Empty(t, srv.CallsTo(http.MethodGet, "/doctor/filter"))
}

func TestDoctorFilterFailureDegradesToEmpty(t *testing.T) {
	srv, svc, _ := setup(t, models.RolePatient, "")
	srv.Fail(http.MethodGet, "/doctor/filter", http.StatusInternalServerError)

	got := svc.Doctors.Filter(context.Background(), models.DoctorFilter{Name: "al"})
	assert.NotNil(t, got.Doctors)
	assert.Empty(t, got.Doctors)
}

func TestDoctorListIsCachedUntilMutation(t *testing.T) {
	srv, svc, _ := setup(t, models.RoleAdmin, fakeapi.AdminUsername)
	alice, _ := seedDoctors(srv)
	ctx := context.Background()

	assert.Len(t, svc.Doctors.List(ctx), 2)
	assert.Len(t, svc.Doctors.List(ctx), 2)
	assert.Len(t, srv.CallsTo(http.MethodGet, "/doctor"), 1, "second listing should hit the cache")

	res := svc.Doctors.Delete(ctx, alice.ID)
	assert.True(t, res.Success)
	assert.Equal(t, constants.MsgDoctorDeleted, res.Message)

	assert.Len(t, svc.Doctors.List(ctx), 1)
	assert.Len(t, srv.CallsTo(http.MethodGet, "/doctor"), 2)
}

func TestDoctorSave(t *testing.T) {
	srv, svc, _ := setup(t, models.RoleAdmin, fakeapi.AdminUsername)
	ctx := context.Background()

	t.Run("validation happens before any request", func(t *testing.T) {
		_, err := svc.Doctors.Save(ctx, models.NewDoctor{
			Name:      "Carol",
			Email:     "carol@clinic.test",
			Phone:     "5550003333",
			Password:  "pw",
			Specialty: "neurologist",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, constants.MsgSelectSlot, err.Error())
		assert.Empty(t, srv.CallsTo(http.MethodPost, "/doctor"))
	})

	t.Run("created", func(t *testing.T) {
		res, err := svc.Doctors.Save(ctx, models.NewDoctor{
			Name:           "Carol",
			Email:          "carol@clinic.test",
			Phone:          "5550003333",
			Password:       "pw",
			Specialty:      "neurologist",
			AvailableTimes: []string{"09:00-10:00"},
		})
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "Doctor added to db", res.Message)
		assert.Len(t, srv.Doctors(), 1)
	})

	t.Run("conflict carries server message", func(t *testing.T) {
		res, err := svc.Doctors.Save(ctx, models.NewDoctor{
			Name:           "Carol",
			Email:          "carol@clinic.test",
			Phone:          "5550003333",
			Password:       "pw",
			Specialty:      "neurologist",
			AvailableTimes: []string{"09:00-10:00"},
		})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Doctor already exists", res.Message)
	})
}

func TestDoctorDeleteTransportFailure(t *testing.T) {
	srv, svc, _ := setup(t, models.RoleAdmin, fakeapi.AdminUsername)
	srv.Close()

	res := svc.Doctors.Delete(context.Background(), 1)
	assert.False(t, res.Success)
	assert.Equal(t, constants.MsgNetworkError, res.Message)
}

func TestDoctorDeleteWithoutTokenIsRejected(t *testing.T) {
	srv, svc, _ := setup(t, models.RoleAdmin, "")
	alice, _ := seedDoctors(srv)

	res := svc.Doctors.Delete(context.Background(), alice.ID)
	assert.False(t, res.Success)
	assert.Equal(t, "Missing token", res.Message)
	assert.Len(t, srv.Doctors(), 2)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Auth, "no token means no Authorization header")
}

func seedAppointments(srv *fakeapi.Server) (models.Patient, models.Doctor) {
	doc, _ := seedDoctors(srv)
	p := srv.AddPatient(models.Patient{Name: "Pat Doe", Email: "pat@example.com", Phone: "5551234567"}, "pw")
	srv.AddAppointment(models.Appointment{
		PatientID:       p.ID,
		PatientName:     p.Name,
		PatientEmail:    p.Email,
		DoctorID:        doc.ID,
		DoctorName:      doc.Name,
		AppointmentTime: "2024-03-01T09:00:00",
		Status:          models.StatusPending,
	})
	srv.AddAppointment(models.Appointment{
		PatientID:       p.ID,
		PatientName:     "Other Person",
		DoctorID:        doc.ID,
		DoctorName:      doc.Name,
		AppointmentTime: "2024-03-01T10:00:00",
		Status:          models.StatusConsulted,
	})
	srv.AddAppointment(models.Appointment{
		PatientID:       p.ID,
		PatientName:     p.Name,
		DoctorID:        doc.ID,
		AppointmentTime: "2024-03-02T09:00:00",
	})
	return p, doc
}

func TestAppointmentListSendsNullName(t *testing.T) {
	srv, svc, _ := setup(t, models.RoleDoctor, "alice@clinic.test")
	seedAppointments(srv)

	got, err := svc.Appointments.List(context.Background(), "2024-03-01", nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	calls := srv.CallsTo(http.MethodGet, "/appointments")
	require.Len(t, calls, 1)
	assert.Equal(t, "null", calls[0].Query.Get("patientName"))
	assert.Equal(t, "2024-03-01", calls[0].Query.Get("date"))
	assert.Contains(t, calls[0].Auth, "Bearer ")
}

func TestAppointmentListByName(t *testing.T) {
	srv, svc, _ := setup(t, models.RoleDoctor, "alice@clinic.test")
	seedAppointments(srv)

	name := "pat"
	got, err := svc.Appointments.List(context.Background(), "2024-03-01", &name)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pat Doe", got[0].PatientName)
}

func TestAppointmentListErrors(t *testing.T) {
	t.Run("non-OK status", func(t *testing.T) {
		srv, svc, _ := setup(t, models.RoleDoctor, "alice@clinic.test")
		srv.Fail(http.MethodGet, "/appointments", http.StatusInternalServerError)

		_, err := svc.Appointments.List(context.Background(), "2024-03-01", nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsRejection(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		srv, svc, _ := setup(t, models.RoleDoctor, "alice@clinic.test")
		srv.Close()

		_, err := svc.Appointments.List(context.Background(), "2024-03-01", nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsTransport(err))
	})
}

func TestAppointmentBookUpdateCancel(t *testing.T) {
	srv, svc, _ := setup(t, models.RoleLoggedPatient, "pat@example.com")
	p, doc := seedAppointments(srv)
	ctx := context.Background()

	res, err := svc.Appointments.Book(ctx, models.AppointmentRequest{
		Doctor:          models.Ref{ID: doc.ID},
		Patient:         models.Ref{ID: p.ID},
		AppointmentTime: "2024-03-05T11:00:00",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Appointment Booked Successfully", res.Message)

	all := srv.Appointments()
	booked := all[len(all)-1]
	assert.Equal(t, "2024-03-05T11:00:00", booked.AppointmentTime)

	res, err = svc.Appointments.Update(ctx, models.AppointmentRequest{
		ID:              booked.ID,
		Doctor:          models.Ref{ID: doc.ID},
		Patient:         models.Ref{ID: p.ID},
		AppointmentTime: "2024-03-05T12:00:00",
		Status:          1,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = svc.Appointments.Update(ctx, models.AppointmentRequest{AppointmentTime: "x"})
	assert.True(t, apperrors.IsValidation(err))

	res = svc.Appointments.Cancel(ctx, booked.ID)
	assert.True(t, res.Success)

	res = svc.Appointments.Cancel(ctx, booked.ID)
	assert.False(t, res.Success)
	assert.Equal(t, "Appointment not found", res.Message)
}

func TestPatientSignupAndLogin(t *testing.T) {
	srv, svc, _ := setup(t, models.RolePatient, "")
	ctx := context.Background()

	signup := models.PatientSignup{
		Name:     "New Patient",
		Email:    "new@example.com",
		Password: "pw123",
		Phone:    "5559990000",
		Address:  "1 Main St",
	}
	res, err := svc.Patients.Signup(ctx, signup)
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = svc.Patients.Signup(ctx, signup)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Patient with email id or phone no already exist", res.Message)

	_, err = svc.Patients.Signup(ctx, models.PatientSignup{Name: "x"})
	assert.True(t, apperrors.IsValidation(err))

	token, err := svc.Auth.PatientLogin(ctx, " new@example.com ", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	calls := srv.CallsTo(http.MethodPost, "/patient/login")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"identifier":"new@example.com","password":"pw123"}`, string(calls[0].Body))

	_, err = svc.Auth.PatientLogin(ctx, "new@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestPatientProfileAndAppointments(t *testing.T) {
	srv, svc, sess := setup(t, models.RoleLoggedPatient, "pat@example.com")
	p, _ := seedAppointments(srv)
	ctx := context.Background()

	profile := svc.Patients.Profile(ctx)
	require.NotNil(t, profile)
	assert.Equal(t, p.ID, profile.ID)

	appts := svc.Patients.Appointments(ctx, p.ID)
	assert.Len(t, appts, 3)

	list, err := svc.Patients.FilterAppointments(ctx, models.PatientAppointmentFilter{Condition: models.ConditionPast})
	require.NoError(t, err)
	assert.Len(t, list.Appointments, 3)

	calls := srv.CallsTo(http.MethodGet, "/patient/filter")
	require.Len(t, calls, 1)
	assert.Equal(t, "past", calls[0].Query.Get("condition"))
	assert.Empty(t, calls[0].Query.Get("name"))

	_, err = svc.Patients.FilterAppointments(ctx, models.PatientAppointmentFilter{Condition: "soon"})
	assert.True(t, apperrors.IsValidation(err))

	_ = sess.SetToken("")
	assert.Nil(t, svc.Patients.Profile(ctx), "unauthenticated profile fetch yields nil")
}

func TestLogins(t *testing.T) {
	srv, svc, _ := setup(t, models.RoleNone, "")
	seedDoctors(srv)
	ctx := context.Background()

	token, err := svc.Auth.AdminLogin(ctx, fakeapi.AdminUsername, fakeapi.AdminPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Auth.AdminLogin(ctx, "admin", "nope")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Auth.AdminLogin(ctx, "  ", "pw")
	require.Error(t, err)
	assert.Equal(t, "Please enter both username and password.", err.Error())

	token, err = svc.Auth.DoctorLogin(ctx, "alice@clinic.test", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	assert.Len(t, srv.Calls(), 3, "validation failures must not reach the backend")
}

func TestLoginTransportFailure(t *testing.T) {
	srv, svc, _ := setup(t, models.RoleNone, "")
	srv.Close()

	_, err := svc.Auth.DoctorLogin(context.Background(), "a@b.c", "pw")
	assert.True(t, apperrors.IsTransport(err))
}

func TestPrescriptions(t *testing.T) {
	srv, svc, _ := setup(t, models.RoleDoctor, "alice@clinic.test")
	ctx := context.Background()

	assert.Empty(t, svc.Prescriptions.Get(ctx, 7))

	res, err := svc.Prescriptions.Save(ctx, models.Prescription{
		PatientName:   "Pat Doe",
		AppointmentID: 7,
		Medication:    "Amoxicillin",
		Dosage:        "500mg twice daily",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)

	got := svc.Prescriptions.Get(ctx, 7)
	require.Len(t, got, 1)
	assert.Equal(t, "Amoxicillin", got[0].Medication)
	assert.Len(t, srv.CallsTo(http.MethodGet, "/prescription/7"), 2)

	_, err = svc.Prescriptions.Save(ctx, models.Prescription{AppointmentID: 7})
	assert.True(t, apperrors.IsValidation(err))
}
