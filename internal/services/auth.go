package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/julianstephens/clinicdesk/internal/api"
	apperrors "github.com/julianstephens/clinicdesk/internal/errors"
	"github.com/julianstephens/clinicdesk/internal/logger"
	"github.com/julianstephens/clinicdesk/internal/models"
)

// AuthService exchanges credentials for a bearer token. Callers store the
// token and select the role.
type AuthService struct {
	client   Requester
	patients *PatientService
}

func NewAuthService(client Requester, patients *PatientService) *AuthService {
	return &AuthService{client: client, patients: patients}
}

func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (string, error) {
	creds := models.AdminCredentials{Username: strings.TrimSpace(username), Password: strings.TrimSpace(password)}
	if err := models.Validate(creds); err != nil {
		return "", err
	}
	return s.login(ctx, "/admin", creds)
}

func (s *AuthService) DoctorLogin(ctx context.Context, email, password string) (string, error) {
	creds := models.DoctorCredentials{Email: strings.TrimSpace(email), Password: strings.TrimSpace(password)}
	if err := models.Validate(creds); err != nil {
		return "", err
	}
	return s.login(ctx, "/doctor/login", creds)
}

func (s *AuthService) PatientLogin(ctx context.Context, email, password string) (string, error) {
	creds := models.PatientCredentials{Identifier: strings.TrimSpace(email), Password: strings.TrimSpace(password)}
	resp, err := s.patients.Login(ctx, creds)
	if apperrors.IsValidation(err) {
		return "", err
	}
	return tokenFrom("/patient/login", resp, err)
}

func (s *AuthService) login(ctx context.Context, path string, body interface{}) (string, error) {
	resp, err := s.client.Do(ctx, api.Request{Method: http.MethodPost, Path: path, Body: body})
	return tokenFrom(path, resp, err)
}

// tokenFrom reads the token out of a login response.
func tokenFrom(path string, resp *http.Response, err error) (string, error) {
	if err != nil {
		logger.Error("Login request failed", "path", path, "error", err)
		return "", fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	if !api.OK(resp.StatusCode) {
		logger.Info("Login rejected", "path", path, "status", resp.StatusCode)
		return "", apperrors.ErrInvalidCredentials
	}

	var tok models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if tok.Token == "" {
		return "", fmt.Errorf("login response did not include a token")
	}
	return tok.Token, nil
}
