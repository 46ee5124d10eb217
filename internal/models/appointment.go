package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AppointmentStatus is the normalized two-value appointment status
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConsulted AppointmentStatus = "consulted"
)

// NormalizeStatus maps a raw backend status onto the pending/consulted enum.
// Absent values default to pending. The backend's integer codes (0 scheduled, 1 completed)
// and their names are accepted as well.
func NormalizeStatus(raw string) AppointmentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "consulted", "completed", "1":
		return StatusConsulted
	default:
		return StatusPending
	}
}

// Label returns the capitalized display label, e.g. "Consulted"
func (s AppointmentStatus) Label() string {
	n := NormalizeStatus(string(s))
	return strings.ToUpper(string(n[:1])) + string(n[1:])
}

// UnmarshalJSON accepts a string, an integer status code or null
func (s *AppointmentStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = AppointmentStatus(strings.ToLower(strings.TrimSpace(str)))
		return nil
	}
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("invalid appointment status %s: %w", string(data), err)
	}
	*s = NormalizeStatus(fmt.Sprintf("%d", code))
	return nil
}

// Appointment is the doctor-facing appointment row returned by the backend
type Appointment struct {
	ID              int64             `json:"id"`
	PatientID       int64             `json:"patientId"`
	PatientName     string            `json:"patientName"`
	PatientPhone    string            `json:"patientPhone,omitempty"`
	PatientEmail    string            `json:"patientEmail,omitempty"`
	PatientAddress  string            `json:"patientAddress,omitempty"`
	DoctorID        int64             `json:"doctorId"`
	DoctorName      string            `json:"doctorName,omitempty"`
	AppointmentTime string            `json:"appointmentTime,omitempty"`
	Status          AppointmentStatus `json:"status"`
}

// NormalizedStatus returns the status with the pending default applied
func (a Appointment) NormalizedStatus() AppointmentStatus {
	return NormalizeStatus(string(a.Status))
}

// Patient builds the patient view of this appointment with "N/A" for missing contact fields
func (a Appointment) Patient() PatientSummary {
	phone, email := a.PatientPhone, a.PatientEmail
	if phone == "" {
		phone = "N/A"
	}
	if email == "" {
		email = "N/A"
	}
	return PatientSummary{
		ID:     a.PatientID,
		Name:   a.PatientName,
		Phone:  phone,
		Email:  email,
		Status: a.NormalizedStatus(),
	}
}

// AppointmentList is the {appointments: [...]} envelope
type AppointmentList struct {
	Appointments []Appointment `json:"appointments"`
	Count        int           `json:"count,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// Ref references another resource by id in a request body
type Ref struct {
	ID int64 `json:"id" validate:"gt=0"`
}

// AppointmentRequest is the body for booking or updating an appointment
type AppointmentRequest struct {
	ID              int64  `json:"id,omitempty"`
	Doctor          Ref    `json:"doctor"`
	Patient         Ref    `json:"patient"`
	AppointmentTime string `json:"appointmentTime" validate:"required"`
	Status          int    `json:"status" validate:"oneof=0 1"`
}

func (AppointmentRequest) validationMessage([]string) string {
	return "Please choose a doctor, a patient and an appointment time."
}
