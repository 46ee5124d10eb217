// Package services wraps each backend resource. Mutations report network and
// server failures in a models.MutationResult; the only error they return is
// a validation error raised before the request. Queries degrade to empty
// collections, except AppointmentService.List which reports failures so the
// doctor dashboard can render its error row.
package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julianstephens/clinicdesk/internal/api"
	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/logger"
	"github.com/julianstephens/clinicdesk/internal/models"
)

// Requester is the slice of *api.Client that services depend on.
type Requester interface {
	Do(ctx context.Context, req api.Request) (*http.Response, error)
	JSON(ctx context.Context, req api.Request, out interface{}) (int, error)
}

// Services bundles every resource service around one client.
type Services struct {
	Doctors       *DoctorService
	Patients      *PatientService
	Appointments  *AppointmentService
	Prescriptions *PrescriptionService
	Auth          *AuthService
}

func New(client Requester, doctorCacheTTL time.Duration) *Services {
	patients := NewPatientService(client)
	return &Services{
		Doctors:       NewDoctorService(client, doctorCacheTTL),
		Patients:      patients,
		Appointments:  NewAppointmentService(client),
		Prescriptions: NewPrescriptionService(client),
		Auth:          NewAuthService(client, patients),
	}
}

// mutate sends req and folds the outcome into a MutationResult. The message
// is the body's "message" or fallback; transport failures use the generic
// network error.
func mutate(ctx context.Context, client Requester, req api.Request, fallback string) models.MutationResult {
	var body models.MessageBody
	status, err := client.JSON(ctx, req, &body)
	if err != nil {
		var decodeErr *api.DecodeError
		if !errors.As(err, &decodeErr) {
			logger.Error("Request failed", "method", req.Method, "path", req.Path, "error", err)
			return models.MutationResult{Success: false, Message: constants.MsgNetworkError}
		}
		logger.Warn("Unreadable response body", "method", req.Method, "path", req.Path, "status", status)
	}

	msg := body.Message
	if msg == "" {
		msg = fallback
	}
	ok := api.OK(status)
	if !ok {
		logger.Warn("Request rejected", "method", req.Method, "path", req.Path, "status", status, "message", msg)
	}
	return models.MutationResult{Success: ok, Message: msg}
}

// query sends req and decodes the envelope into out. It reports whether the
// call succeeded with a 2xx status; failures are logged.
func query(ctx context.Context, client Requester, req api.Request, out interface{}) bool {
	status, err := client.JSON(ctx, req, out)
	if err != nil {
		logger.Error("Query failed", "path", req.Path, "status", status, "error", err)
		return false
	}
	if !api.OK(status) {
		logger.Warn("Query rejected", "path", req.Path, "status", status)
		return false
	}
	return true
}
