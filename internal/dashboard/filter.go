package dashboard

import (
	"strings"

	"github.com/julianstephens/clinicdesk/internal/models"
)

// ApplyStatus keeps the appointments whose normalized status equals status,
// ignoring case. An empty status keeps everything.
func ApplyStatus(appts []models.Appointment, status string) []models.Appointment {
	status = strings.TrimSpace(status)
	if status == "" {
		return appts
	}
	out := make([]models.Appointment, 0, len(appts))
	for _, a := range appts {
		if strings.EqualFold(string(a.NormalizedStatus()), status) {
			out = append(out, a)
		}
	}
	return out
}

// optionalName turns free-text input into a name filter; blank means none.
func optionalName(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
