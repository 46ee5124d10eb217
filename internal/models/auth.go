package models

// AdminCredentials is the body for POST /admin
type AdminCredentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (AdminCredentials) validationMessage([]string) string {
	return "Please enter both username and password."
}

// DoctorCredentials is the body for POST /doctor/login
type DoctorCredentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (DoctorCredentials) validationMessage([]string) string {
	return "Please enter both email and password."
}

// PatientCredentials is the body for POST /patient/login
type PatientCredentials struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func (PatientCredentials) validationMessage([]string) string {
	return "Please enter both email and password."
}

// TokenResponse is returned by every login endpoint
type TokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}
