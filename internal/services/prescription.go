package services

import (
	"context"
	"net/http"
	"strconv"

	"github.com/julianstephens/clinicdesk/internal/api"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/models"
)

type PrescriptionService struct {
	client Requester
}

func NewPrescriptionService(client Requester) *PrescriptionService {
	return &PrescriptionService{client: client}
}

// Save records a prescription against its appointment.
func (s *PrescriptionService) Save(ctx context.Context, p models.Prescription) (models.MutationResult, error) {
	if err := models.Validate(p); err != nil {
		return models.MutationResult{}, err
	}
	return mutate(ctx, s.client, api.Request{Method: http.MethodPost, Path: "/prescription", Body: p}, constants.MsgPrescriptionSaved), nil
}

// Get returns the prescriptions written for an appointment, empty on failure.
func (s *PrescriptionService) Get(ctx context.Context, appointmentID int64) []models.Prescription {
	var body models.PrescriptionList
	req := api.Request{Method: http.MethodGet, Path: "/prescription/" + strconv.FormatInt(appointmentID, 10)}
	if !query(ctx, s.client, req, &body) || body.Prescriptions == nil {
		return []models.Prescription{}
	}
	return body.Prescriptions
}
