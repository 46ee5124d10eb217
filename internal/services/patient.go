package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julianstephens/clinicdesk/internal/api"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/models"
)

type PatientService struct {
	client Requester
}

func NewPatientService(client Requester) *PatientService {
	return &PatientService{client: client}
}

// Signup registers a patient. On rejection the message is the server's.
func (s *PatientService) Signup(ctx context.Context, p models.PatientSignup) (models.MutationResult, error) {
	if err := models.Validate(p); err != nil {
		return models.MutationResult{}, err
	}
	return mutate(ctx, s.client, api.Request{Method: http.MethodPost, Path: "/patient", Body: p}, constants.MsgSomethingWentWrong), nil
}

// Login posts patient credentials and hands back the raw response.
// The caller owns the response body.
func (s *PatientService) Login(ctx context.Context, creds models.PatientCredentials) (*http.Response, error) {
	if err := models.Validate(creds); err != nil {
		return nil, err
	}
	return s.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "/patient/login", Body: creds})
}

// Profile returns the logged-in patient, or nil on any failure.
func (s *PatientService) Profile(ctx context.Context) *models.Patient {
	var body struct {
		Patient *models.Patient `json:"patient"`
	}
	if !query(ctx, s.client, api.Request{Method: http.MethodGet, Path: "/patient"}, &body) {
		return nil
	}
	return body.Patient
}

// Appointments lists a patient's appointments, or nil on any failure.
func (s *PatientService) Appointments(ctx context.Context, patientID int64) []models.Appointment {
	var body models.AppointmentList
	req := api.Request{
		Method: http.MethodGet,
		Path:   "/patient/appointments",
		Query:  url.Values{"id": {strconv.FormatInt(patientID, 10)}},
	}
	if !query(ctx, s.client, req, &body) {
		return nil
	}
	return body.Appointments
}

// FilterAppointments narrows the logged-in patient's appointments by time
// condition and doctor name. Only non-empty criteria are sent.
func (s *PatientService) FilterAppointments(ctx context.Context, f models.PatientAppointmentFilter) (models.AppointmentList, error) {
	if err := models.Validate(f); err != nil {
		return models.AppointmentList{}, err
	}

	params := url.Values{}
	if f.Condition != models.ConditionAny {
		params.Set("condition", string(f.Condition))
	}
	if f.Name != "" {
		params.Set("name", f.Name)
	}

	var body models.AppointmentList
	if !query(ctx, s.client, api.Request{Method: http.MethodGet, Path: "/patient/filter", Query: params}, &body) {
		return models.AppointmentList{Appointments: []models.Appointment{}}, nil
	}
	if body.Appointments == nil {
		body.Appointments = []models.Appointment{}
	}
	return body, nil
}
