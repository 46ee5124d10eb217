package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/julianstephens/clinicdesk/internal/constants"
)

var (
	// ErrSessionInvalid is returned when a privileged action is attempted without a usable token.
	// Callers must log the user out and redirect to the role selection view.
	ErrSessionInvalid = stderrors.New("session expired or invalid login")

	// ErrTransport wraps failures that happened before an HTTP status was received
	ErrTransport = stderrors.New("network error")

	// ErrInvalidCredentials is returned when a login endpoint rejects the supplied credentials
	ErrInvalidCredentials = stderrors.New("invalid credentials")
)

// ValidationError reports a missing or malformed input field.
// It is always raised before any network call is made.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("invalid input: %s", strings.Join(e.Fields, ", "))
}

// NewValidation creates a ValidationError with a user-facing message
func NewValidation(message string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: message}
}

// RejectionError is a non-2xx response from the backend
type RejectionError struct {
	Status  int
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return stderrors.As(err, &v)
}

// IsRejection reports whether err is (or wraps) a RejectionError
func IsRejection(err error) bool {
	var r *RejectionError
	return stderrors.As(err, &r)
}

// IsSession reports whether err signals an invalid session
func IsSession(err error) bool {
	return stderrors.Is(err, ErrSessionInvalid)
}

// IsTransport reports whether err is a wrapped transport failure
func IsTransport(err error) bool {
	return stderrors.Is(err, ErrTransport)
}

// UserMessage is the text shown to a user for err. Validation and rejection
// messages pass through; the other kinds map to fixed messages.
func UserMessage(err error) string {
	var v *ValidationError
	var r *RejectionError
	switch {
	case err == nil:
		return ""
	case stderrors.As(err, &v):
		return v.Error()
	case stderrors.As(err, &r):
		if r.Message != "" {
			return r.Message
		}
		return constants.MsgSomethingWentWrong
	case IsSession(err):
		return constants.MsgSessionExpired
	case IsTransport(err):
		return constants.MsgNetworkError
	case stderrors.Is(err, ErrInvalidCredentials):
		return constants.MsgInvalidCredentials
	default:
		return err.Error()
	}
}
