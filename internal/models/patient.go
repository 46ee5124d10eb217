package models

// Patient is the logged-in patient's profile
type Patient struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PatientSummary is the patient shown in a doctor's appointment row
type PatientSummary struct {
	ID     int64
	Name   string
	Phone  string
	Email  string
	Status AppointmentStatus
}

// PatientSignup is the body for POST /patient
type PatientSignup struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
}

func (PatientSignup) validationMessage([]string) string {
	return "Please fill in all required fields."
}

// AppointmentCondition filters a patient's appointments by time
type AppointmentCondition string

const (
	ConditionAny    AppointmentCondition = ""
	ConditionPast   AppointmentCondition = "past"
	ConditionFuture AppointmentCondition = "future"
)

// PatientAppointmentFilter holds the optional criteria for GET /patient/filter
type PatientAppointmentFilter struct {
	Condition AppointmentCondition `validate:"omitempty,oneof=past future"`
	Name      string
}

func (PatientAppointmentFilter) validationMessage([]string) string {
	return "Invalid condition. Use 'past' or 'future'"
}
