package constants

import "time"

// SessionState represents the current view of the TUI application
type SessionState int

const (
	AppName            = "clinicdesk"
	DefaultKeyringUser = "session-token"
	DefaultConfigDir   = "~/.config/clinicdesk"
	DefaultStorePath   = "~/.config/clinicdesk/clinicdesk.db"
	DefaultConfigFile  = "config.yaml"
	EnvPrefix          = "CLINICDESK"
	Version            = "v0.3.0"

	// DateFormat is the date format the backend expects for appointment queries (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// AppointmentTimeFormat is the local date-time layout sent when booking
	AppointmentTimeFormat = "2006-01-02T15:04:05"

	// Local storage keys
	StoreKeyRole     = "userRole"
	StoreKeyToken    = "token"
	StoreKeyLastDate = "selectedDate"

	// Dashboard constants
	DefaultPageSize       = 10
	BannerDuration        = 5 * time.Second
	PatientTableColumns   = 6
	DefaultDoctorCacheTTL = 30 * time.Second
)

// Session States
const (
	StateRoleSelect SessionState = iota
	StateLogin
	StateAdminDashboard
	StateDoctorDashboard
	StatePatientDashboard
	StatePatientAppointments
	StatePatientRecord
	StatePrescription
)

// AvailabilitySlots are the time slots a doctor may be marked available for
var AvailabilitySlots = []string{
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"12:00-13:00",
}

// Specialties are the specialty codes offered when adding or filtering doctors
var Specialties = []string{
	"cardiologist",
	"dermatologist",
	"neurologist",
	"pediatrician",
	"orthopedic",
	"gynecologist",
	"psychiatrist",
	"dentist",
	"ophthalmologist",
	"ent",
	"urologist",
	"oncologist",
	"gastroenterologist",
	"general",
}
