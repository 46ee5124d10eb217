package errors

import (
	"fmt"
	"os"

	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/logger"
)

// Format renders err for the terminal with an "Error: " prefix. An invalid
// session also gets a hint on how to start a new one.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if IsSession(err) {
		msg += fmt.Sprintf("\nRun '%s login <role>' to start a new session.", constants.AppName)
	}
	return msg
}

// Fatal logs err and exits with status 1. A nil err is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}
