package models

import "strings"

// Doctor is a doctor record as listed by the backend
type Doctor struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Specialty      string   `json:"specialty"`
	AvailableTimes []string `json:"availableTimes"`
}

// Availability joins the available time slots, or returns the empty string when none are set
func (d Doctor) Availability() string {
	return strings.Join(d.AvailableTimes, ", ")
}

// NewDoctor is the admin's add-doctor form
type NewDoctor struct {
	Name           string   `json:"name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone" validate:"required"`
	Password       string   `json:"password" validate:"required"`
	Specialty      string   `json:"specialty" validate:"required"`
	AvailableTimes []string `json:"availableTimes" validate:"min=1,dive,required"`
}

func (NewDoctor) validationMessage(fields []string) string {
	if len(fields) == 1 && fields[0] == "availableTimes" {
		return "Please select at least one available time slot."
	}
	return "Please fill in all required fields."
}

// DoctorFilter holds optional doctor search criteria. Empty fields are not sent.
type DoctorFilter struct {
	Name      string
	Time      string
	Specialty string
}

// Empty reports whether no criterion is set
func (f DoctorFilter) Empty() bool {
	return f.Name == "" && f.Time == "" && f.Specialty == ""
}

// DoctorList is the {doctors: [...]} envelope
type DoctorList struct {
	Doctors []Doctor `json:"doctors"`
	Count   int      `json:"count,omitempty"`
	Message string   `json:"message,omitempty"`
}
