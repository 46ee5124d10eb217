package views

import (
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/nav"
)

// Outcome is what an action asks its host to do next. The TUI and the CLI
// each interpret outcomes in their own way.
type Outcome interface {
	isOutcome()
}

type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Alert shows a message to the user.
type Alert struct {
	Level   Level
	Message string
}

// CardRemoved reports that a doctor card left its list.
type CardRemoved struct {
	DoctorID int64
}

// Navigate sends the user to another view.
type Navigate struct {
	Target nav.Target
}

// PromptLogin asks the host to open the patient login form.
type PromptLogin struct{}

// OpenBooking hands a doctor and the logged-in patient to the booking form.
type OpenBooking struct {
	Doctor  models.Doctor
	Patient models.Patient
}

// ForceLogout ends an invalid session and returns to target.
type ForceLogout struct {
	Target nav.Target
}

func (Alert) isOutcome()       {}
func (CardRemoved) isOutcome() {}
func (Navigate) isOutcome()    {}
func (PromptLogin) isOutcome() {}
func (OpenBooking) isOutcome() {}
func (ForceLogout) isOutcome() {}

func info(msg string) Alert {
	return Alert{Level: LevelInfo, Message: msg}
}

func failure(msg string) Alert {
	return Alert{Level: LevelError, Message: msg}
}
