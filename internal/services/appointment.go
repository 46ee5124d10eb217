package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julianstephens/clinicdesk/internal/api"
	"github.com/julianstephens/clinicdesk/internal/constants"
	apperrors "github.com/julianstephens/clinicdesk/internal/errors"
	"github.com/julianstephens/clinicdesk/internal/logger"
	"github.com/julianstephens/clinicdesk/internal/models"
)

// nullName is what the backend expects when no patient name filter is set.
const nullName = "null"

type AppointmentService struct {
	client Requester
}

func NewAppointmentService(client Requester) *AppointmentService {
	return &AppointmentService{client: client}
}

// List fetches a doctor's appointments for date. A nil patientName means no
// name filter. Transport failures wrap ErrTransport; non-2xx statuses return
// a *RejectionError.
func (s *AppointmentService) List(ctx context.Context, date string, patientName *string) ([]models.Appointment, error) {
	name := nullName
	if patientName != nil {
		name = *patientName
	}

	var body models.AppointmentList
	status, err := s.client.JSON(ctx, api.Request{
		Method: http.MethodGet,
		Path:   "/appointments",
		Query:  url.Values{"date": {date}, "patientName": {name}},
	}, &body)
	if err != nil {
		logger.Error("Failed to fetch appointments", "date", date, "status", status, "error", err)
		if status != 0 {
			return nil, &apperrors.RejectionError{Status: status, Message: "Failed to fetch appointments"}
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	if !api.OK(status) {
		return nil, &apperrors.RejectionError{Status: status, Message: "Failed to fetch appointments"}
	}
	if body.Appointments == nil {
		body.Appointments = []models.Appointment{}
	}
	return body.Appointments, nil
}

// Book creates an appointment.
func (s *AppointmentService) Book(ctx context.Context, req models.AppointmentRequest) (models.MutationResult, error) {
	if err := models.Validate(req); err != nil {
		return models.MutationResult{}, err
	}
	return mutate(ctx, s.client, api.Request{Method: http.MethodPost, Path: "/appointments", Body: req}, constants.MsgSomethingWentWrong), nil
}

// Update replaces an existing appointment; req.ID selects it.
func (s *AppointmentService) Update(ctx context.Context, req models.AppointmentRequest) (models.MutationResult, error) {
	if req.ID <= 0 {
		return models.MutationResult{}, apperrors.NewValidation("Please choose an appointment to update.", "id")
	}
	if err := models.Validate(req); err != nil {
		return models.MutationResult{}, err
	}
	return mutate(ctx, s.client, api.Request{Method: http.MethodPut, Path: "/appointments", Body: req}, constants.MsgSomethingWentWrong), nil
}

// Cancel deletes an appointment by id.
func (s *AppointmentService) Cancel(ctx context.Context, id int64) models.MutationResult {
	return mutate(ctx, s.client, api.Request{
		Method: http.MethodDelete,
		Path:   "/appointments/" + strconv.FormatInt(id, 10),
	}, constants.MsgSomethingWentWrong)
}
