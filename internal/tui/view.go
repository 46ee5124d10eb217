package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/views"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateRoleSelect:
		content = m.viewRoleSelect()
	case constants.StateLogin:
		content = ""
	case constants.StateAdminDashboard, constants.StatePatientDashboard:
		content = m.viewDirectory()
	case constants.StateDoctorDashboard:
		content = m.viewDoctorDashboard()
	case constants.StatePatientAppointments:
		content = m.viewPatientAppointments()
	case constants.StatePatientRecord:
		content = m.viewRecord()
	case constants.StatePrescription:
		content = m.viewPrescription()
	}

	// An open form replaces the content it was opened over.
	if m.form != nil {
		content = m.form.View()
	}

	parts := []string{m.viewHeader()}
	if m.flash != "" {
		style := infoStyle
		if m.flashErr {
			style = errorStyle
		}
		parts = append(parts, style.Render(m.flash))
	}
	parts = append(parts, docStyle.Render(content), m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	title := titleStyle.Render("Clinic Desk")
	role := subtleStyle.Render("role: " + m.deps.Session.Role().String())
	header := title + " " + role
	if m.loading {
		header += " " + m.spinner.View()
	}
	return header
}

func (m Model) viewRoleSelect() string {
	var b strings.Builder
	b.WriteString("Select your role:\n\n")
	for i, role := range roleChoices {
		label := strings.ToUpper(role.String()[:1]) + role.String()[1:]
		if i == m.roleCursor {
			b.WriteString(selectedStyle.Render("> " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewDirectory() string {
	if m.directory == nil {
		return ""
	}
	var heading string
	switch m.directory.Role() {
	case models.RoleAdmin:
		heading = "Doctors"
	default:
		heading = "Find a Doctor"
	}

	width := m.width - docStyle.GetHorizontalFrameSize()
	if width <= 0 {
		width = 80
	}
	var filters []string
	f := m.directory.Filter()
	if f.Name != "" {
		filters = append(filters, "name="+f.Name)
	}
	if f.Time != "" {
		filters = append(filters, "time="+f.Time)
	}
	if f.Specialty != "" {
		filters = append(filters, "specialty="+f.Specialty)
	}

	lines := []string{selectedStyle.Render(heading)}
	if len(filters) > 0 {
		lines = append(lines, subtleStyle.Render("filter: "+strings.Join(filters, " ")))
	}
	lines = append(lines, m.directory.Cards().Render(width, m.cardColumns(), m.cardCursor, m.directory.Placeholder()))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewDoctorDashboard() string {
	if m.doctorDash == nil {
		return ""
	}
	v := m.doctorDash.View()

	filter := "date: " + v.Date
	if v.Name != "" {
		filter += "  name: " + v.Name
	}
	if v.Status != "" {
		filter += "  status: " + v.Status
	}

	lines := []string{selectedStyle.Render("Patient Appointments"), subtleStyle.Render(filter)}
	if v.Banner != "" {
		lines = append(lines, bannerStyle.Render(v.Banner))
	}
	lines = append(lines, m.table.View())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewPatientAppointments() string {
	if m.patientAppts == nil {
		return ""
	}
	lines := []string{selectedStyle.Render("Your Appointments")}
	if p := m.patientAppts.Profile(); p != nil {
		lines = append(lines, subtleStyle.Render(p.Name+" <"+p.Email+">"))
	}
	if msg := m.patientAppts.Message(); msg != "" {
		lines = append(lines, "", subtleStyle.Render(msg))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, "")
	for i, a := range m.patientAppts.Page() {
		row := fmt.Sprintf("%-20s %-24s %s", a.AppointmentTime, a.DoctorName, views.StatusLabel(a.Status))
		if i == m.apptCursor {
			lines = append(lines, selectedStyle.Render("> "+row))
		} else {
			lines = append(lines, "  "+row)
		}
	}
	if pager := m.patientAppts.Pager(); pager.Visible() {
		lines = append(lines, "", subtleStyle.Render(pager.Label()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewRecord() string {
	rec := m.record
	if rec == nil {
		return ""
	}
	p := rec.patient
	lines := []string{
		selectedStyle.Render("Patient Record"),
		fmt.Sprintf("ID: %d", p.ID),
	}
	if p.Name != "" {
		lines = append(lines,
			"Name: "+p.Name,
			"Phone: "+p.Phone,
			"Email: "+p.Email,
		)
	}
	if len(rec.appointments) == 0 {
		lines = append(lines, "", subtleStyle.Render("No appointments on the current dashboard for this patient."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, "")
	for _, a := range rec.appointments {
		lines = append(lines, fmt.Sprintf("#%d  %s  %s", a.ID, a.AppointmentTime, views.StatusBadge(a.Status)))
		for _, rx := range rec.prescriptions[a.ID] {
			lines = append(lines, subtleStyle.Render(fmt.Sprintf("    %s, %s", rx.Medication, rx.Dosage)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewPrescription() string {
	rx := m.prescription
	if rx == nil {
		return ""
	}
	lines := []string{
		selectedStyle.Render("Prescription"),
		fmt.Sprintf("Appointment: %d", rx.AppointmentID),
		"Patient: " + rx.PatientName,
		"Medication: " + rx.Medication,
		"Dosage: " + rx.Dosage,
	}
	if rx.DoctorNotes != "" {
		lines = append(lines, "Notes: "+rx.DoctorNotes)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
