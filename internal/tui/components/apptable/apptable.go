// Package apptable renders the doctor's appointment table.
package apptable

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/clinicdesk/internal/dashboard"
	"github.com/julianstephens/clinicdesk/internal/views"
)

var (
	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true).
				Align(lipgloss.Center)

	pagerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("237"))
)

type Model struct {
	table       table.Model
	rows        []views.Row
	placeholder string
	pager       dashboard.Pager
	width       int
}

func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)
	return Model{table: t, width: width}
}

func columns(width int) []table.Column {
	if width <= 0 {
		width = 100
	}
	// ID and status are narrow, the rest share what is left.
	narrow := 12
	wide := (width - 3*narrow) / 3
	if wide < 12 {
		wide = 12
	}
	widths := []int{narrow, wide, narrow + 2, wide, narrow, narrow}
	cols := make([]table.Column, len(views.PatientColumns))
	for i, title := range views.PatientColumns {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.table.SetColumns(columns(width))
	m.table.SetHeight(height)
}

// SetView loads a dashboard snapshot into the table.
func (m *Model) SetView(v dashboard.DoctorView) {
	m.rows = v.Table.Rows
	m.placeholder = v.Table.Placeholder
	m.pager = v.Pager

	rows := make([]table.Row, 0, len(v.Table.Rows))
	for _, r := range v.Table.Rows {
		rows = append(rows, table.Row(r.Cells()))
	}
	m.table.SetRows(rows)
	// an empty table leaves the cursor at -1
	if len(rows) > 0 && (v.ScrollToTable || m.table.Cursor() < 0 || m.table.Cursor() >= len(rows)) {
		m.table.GotoTop()
	}
}

// Selected is the row under the cursor, if any.
func (m Model) Selected() (views.Row, bool) {
	if len(m.rows) == 0 {
		return views.Row{}, false
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return views.Row{}, false
	}
	return m.rows[i], true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.rows) == 0 {
		header := m.table.View()
		if m.placeholder == "" {
			return header
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			placeholderStyle.Width(m.width).Render(m.placeholder),
		)
	}

	out := m.table.View()
	if m.pager.Visible() {
		out = lipgloss.JoinVertical(lipgloss.Left, out, m.pagerView())
	}
	return out
}

func (m Model) pagerView() string {
	prev := pagerStyle.Render("« prev")
	if m.pager.PrevDisabled() {
		prev = disabledStyle.Render("« prev")
	}
	next := pagerStyle.Render("next »")
	if m.pager.NextDisabled() {
		next = disabledStyle.Render("next »")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, prev, "  ", pagerStyle.Render(m.pager.Label()), "  ", next)
}
