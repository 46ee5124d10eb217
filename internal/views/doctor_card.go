package views

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/logger"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/nav"
)

// DoctorDeleter is the part of the doctor service a card needs.
type DoctorDeleter interface {
	Delete(ctx context.Context, id int64) models.MutationResult
}

// ProfileFetcher is the part of the patient service a card needs.
type ProfileFetcher interface {
	Profile(ctx context.Context) *models.Patient
}

// TokenSource reports the current bearer token.
type TokenSource interface {
	Token() string
}

// CardDeps are the collaborators card actions call into.
type CardDeps struct {
	Doctors  DoctorDeleter
	Patients ProfileFetcher
	Session  TokenSource
}

// Action is the single button a card offers.
type Action struct {
	Label string
	// Confirm, when set, must be accepted by the user before Run.
	Confirm string
	Run     func(ctx context.Context) []Outcome
	danger  bool
}

// Card is a rendered doctor plus its role-dependent action.
type Card struct {
	Doctor models.Doctor
	Action *Action

	list *CardList
}

type actionBuilder func(card *Card, deps CardDeps) *Action

// cardActions maps each role to the action its cards carry. Roles not listed
// get read-only cards.
var cardActions = map[models.Role]actionBuilder{
	models.RoleAdmin:         deleteAction,
	models.RolePatient:       loginToBookAction,
	models.RoleLoggedPatient: bookAction,
}

// DoctorCard builds the card for doctor as seen by role.
func DoctorCard(doctor models.Doctor, role models.Role, deps CardDeps) *Card {
	card := &Card{Doctor: doctor}
	if build, ok := cardActions[role]; ok {
		card.Action = build(card, deps)
	}
	return card
}

func deleteAction(card *Card, deps CardDeps) *Action {
	d := card.Doctor
	return &Action{
		Label:   "Delete",
		Confirm: fmt.Sprintf("Are you sure you want to delete Dr. %s?", d.Name),
		danger:  true,
		Run: func(ctx context.Context) []Outcome {
			if deps.Session == nil || deps.Session.Token() == "" {
				return []Outcome{
					failure("Session expired. Please log in again."),
					ForceLogout{Target: nav.To(nav.ViewRoleSelect)},
				}
			}

			res := deps.Doctors.Delete(ctx, d.ID)
			if !res.Success {
				msg := res.Message
				if msg == "" {
					msg = "Unknown error"
				}
				return []Outcome{failure("Failed to delete doctor: " + msg)}
			}

			out := []Outcome{info(fmt.Sprintf("Dr. %s has been deleted successfully.", d.Name))}
			if card.remove() {
				out = append(out, CardRemoved{DoctorID: d.ID})
			}
			return out
		},
	}
}

func loginToBookAction(*Card, CardDeps) *Action {
	return &Action{
		Label: "Book Now",
		Run: func(context.Context) []Outcome {
			return []Outcome{info(constants.MsgLoginToBook), PromptLogin{}}
		},
	}
}

func bookAction(card *Card, deps CardDeps) *Action {
	return &Action{
		Label: "Book Now",
		Run: func(ctx context.Context) []Outcome {
			if deps.Session == nil || deps.Session.Token() == "" {
				return []Outcome{
					failure("Session expired. Please log in again."),
					ForceLogout{Target: nav.To(nav.ViewPatientDashboard)},
				}
			}
			patient := deps.Patients.Profile(ctx)
			if patient == nil {
				logger.Warn("Profile unavailable for booking", "doctor", card.Doctor.ID)
				return []Outcome{failure(constants.MsgPatientUnavailable)}
			}
			return []Outcome{OpenBooking{Doctor: card.Doctor, Patient: *patient}}
		},
	}
}

func (c *Card) remove() bool {
	if c.list == nil {
		return false
	}
	return c.list.remove(c)
}

// Availability is the joined time slots or the not-specified placeholder.
func (c *Card) Availability() string {
	if len(c.Doctor.AvailableTimes) == 0 {
		return constants.MsgNotSpecified
	}
	return c.Doctor.Availability()
}

// Render draws the card at the given outer width.
func (c *Card) Render(width int, selected bool) string {
	lines := []string{
		nameStyle.Render(c.Doctor.Name),
		labelStyle.Render("Specialty: ") + c.Doctor.Specialty,
		labelStyle.Render("Email: ") + c.Doctor.Email,
		labelStyle.Render("Available Times: ") + c.Availability(),
	}
	if c.Action != nil {
		style := actionStyle
		if c.Action.danger {
			style = deleteActionStyle
		}
		lines = append(lines, "", style.Render(c.Action.Label))
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	if width > 0 {
		style = style.Width(width - style.GetHorizontalFrameSize())
	}
	return style.Render(strings.Join(lines, "\n"))
}

// CardList is the container doctor cards live in. A card leaves it at most once.
type CardList struct {
	mu    sync.Mutex
	cards []*Card
}

func NewCardList(cards ...*Card) *CardList {
	l := &CardList{}
	for _, c := range cards {
		l.Add(c)
	}
	return l
}

func (l *CardList) Add(c *Card) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c.list = l
	l.cards = append(l.cards, c)
}

func (l *CardList) remove(c *Card) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.cards {
		if existing == c {
			l.cards = append(l.cards[:i], l.cards[i+1:]...)
			c.list = nil
			return true
		}
	}
	return false
}

// Cards returns the cards still in the list.
func (l *CardList) Cards() []*Card {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Card(nil), l.cards...)
}

func (l *CardList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cards)
}

// Render lays the cards out in a grid of columns, or the placeholder when empty.
func (l *CardList) Render(width, columns, selected int, placeholder string) string {
	cards := l.Cards()
	if len(cards) == 0 {
		return placeholderStyle.Width(width).Render(placeholder)
	}
	if columns < 1 {
		columns = 1
	}
	cardWidth := width / columns

	var rows []string
	for start := 0; start < len(cards); start += columns {
		end := start + columns
		if end > len(cards) {
			end = len(cards)
		}
		var rendered []string
		for i := start; i < end; i++ {
			rendered = append(rendered, cards[i].Render(cardWidth, i == selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
