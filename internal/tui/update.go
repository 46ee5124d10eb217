package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/dashboard"
	apperrors "github.com/julianstephens/clinicdesk/internal/errors"
	"github.com/julianstephens/clinicdesk/internal/export"
	"github.com/julianstephens/clinicdesk/internal/logger"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/nav"
	"github.com/julianstephens/clinicdesk/internal/router"
	"github.com/julianstephens/clinicdesk/internal/views"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetSize(msg.Width-4, m.pageSize()+1)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case outcomesMsg:
		return m, m.applyOutcomes(msg.outcomes)
	case appointmentsLoadedMsg:
		return m, m.handleAppointmentsLoaded(msg)
	case directoryLoadedMsg:
		return m, m.handleDirectoryLoaded(msg)
	case patientAppointmentsLoadedMsg:
		return m, m.handlePatientAppointmentsLoaded(msg)
	case loginDoneMsg:
		return m, m.handleLoginDone(msg)
	case mutationDoneMsg:
		return m, m.handleMutationDone(msg)
	case prescriptionsLoadedMsg:
		return m, m.handlePrescriptionsLoaded(msg)
	case recordLoadedMsg:
		if m.record != nil {
			m.record.prescriptions = msg.prescriptions
		}
		m.loading = false
		return m, nil
	case bannerExpiredMsg:
		// View reads banner visibility from the clock.
		return m, nil
	}

	if m.form != nil {
		return m, m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	m.setFlash("", false)

	switch m.state {
	case constants.StateRoleSelect:
		return m, m.handleRoleSelectKeys(keyMsg)
	case constants.StateAdminDashboard, constants.StatePatientDashboard:
		return m, m.handleDirectoryKeys(keyMsg)
	case constants.StateDoctorDashboard:
		return m, m.handleDoctorKeys(keyMsg)
	case constants.StatePatientAppointments:
		return m, m.handlePatientAppointmentsKeys(keyMsg)
	case constants.StatePatientRecord:
		if key.Matches(keyMsg, m.keys.Back) {
			m.state = constants.StateDoctorDashboard
			m.refreshTable()
		}
	case constants.StatePrescription:
		return m, m.handlePrescriptionKeys(keyMsg)
	case constants.StateLogin:
		if key.Matches(keyMsg, m.keys.Back) {
			return m, m.enter(nav.To(nav.ViewRoleSelect))
		}
	}
	return m, nil
}

// applyOutcomes carries out what a view action asked for.
func (m *Model) applyOutcomes(outs []views.Outcome) tea.Cmd {
	var cmds []tea.Cmd
	for _, o := range outs {
		switch o := o.(type) {
		case views.Alert:
			m.setFlash(o.Message, o.Level == views.LevelError)
		case views.CardRemoved:
			if m.directory != nil && m.cardCursor >= m.directory.Cards().Len() && m.cardCursor > 0 {
				m.cardCursor--
			}
		case views.Navigate:
			cmds = append(cmds, m.enter(o.Target))
		case views.PromptLogin:
			cmds = append(cmds, m.openLogin(models.RolePatient))
		case views.OpenBooking:
			cmds = append(cmds, m.openBooking(o.Doctor, o.Patient))
		case views.ForceLogout:
			cmds = append(cmds, m.enter(router.ForceLogout(m.deps.Session, o.Target)))
		}
	}
	return tea.Batch(cmds...)
}

// enter shows target and starts whatever load it needs.
func (m *Model) enter(t nav.Target) tea.Cmd {
	m.form, m.formKind = nil, formNone
	m.loading = false
	logger.Debug("Navigating", "target", t.Path())

	switch t.View {
	case nav.ViewRoleSelect:
		router.EnterRoleSelect(m.deps.Session)
		m.doctorDash = nil
		m.state = constants.StateRoleSelect
		return nil
	case nav.ViewAdminLogin:
		m.state = constants.StateLogin
		return m.openLogin(models.RoleAdmin)
	case nav.ViewDoctorLogin:
		m.state = constants.StateLogin
		return m.openLogin(models.RoleDoctor)
	case nav.ViewPatientLogin:
		load := m.enter(nav.To(nav.ViewPatientDashboard))
		return tea.Batch(load, m.openLogin(models.RolePatient))
	case nav.ViewAdminDashboard:
		m.state = constants.StateAdminDashboard
		m.directory = dashboard.NewAdminDashboard(m.deps.Services.Doctors, m.deps.Session)
		m.cardCursor = 0
		return m.loadDirectory()
	case nav.ViewPatientDashboard, nav.ViewLoggedPatientDashboard:
		m.state = constants.StatePatientDashboard
		m.directory = dashboard.NewPatientDashboard(m.deps.Services.Doctors, m.deps.Services.Patients, m.deps.Session)
		m.cardCursor = 0
		return m.loadDirectory()
	case nav.ViewDoctorDashboard:
		m.state = constants.StateDoctorDashboard
		if m.doctorDash == nil {
			m.doctorDash = dashboard.NewDoctorDashboard(m.deps.Services.Appointments, m.deps.Session,
				dashboard.WithClock(m.deps.Now),
				dashboard.WithPageSize(m.pageSize()),
				dashboard.WithBannerDuration(m.deps.Config.BannerDuration()),
			)
		}
		return m.loadAppointments()
	case nav.ViewPatientAppointments:
		m.state = constants.StatePatientAppointments
		m.patientAppts = dashboard.NewPatientAppointments(m.deps.Services.Patients, m.deps.Session)
		m.apptCursor = 0
		return m.loadPatientAppointments()
	case nav.ViewPatientRecord:
		return m.openRecord(t)
	case nav.ViewAddPrescription:
		return m.openPrescription(t)
	}
	return nil
}

// sessionFailed handles an error from a load. An invalid session ends on
// the role selection view.
func (m *Model) sessionFailed(err error) tea.Cmd {
	m.loading = false
	m.setFlash(apperrors.UserMessage(err), true)
	if apperrors.IsSession(err) {
		return m.enter(nav.To(nav.ViewRoleSelect))
	}
	return nil
}

func (m *Model) logout() tea.Cmd {
	target, err := router.LogoutFor(m.deps.Session)
	if err != nil {
		m.setFlash(err.Error(), true)
		return nil
	}
	m.doctorDash = nil
	m.setFlash(constants.MsgLoggedOut, false)
	return m.enter(target)
}

// Role selection

func (m *Model) handleRoleSelectKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.roleCursor > 0 {
			m.roleCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.roleCursor < len(roleChoices)-1 {
			m.roleCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		target, err := router.SelectRole(m.deps.Session, roleChoices[m.roleCursor])
		if err != nil {
			m.setFlash(err.Error(), true)
			return nil
		}
		return m.enter(target)
	}
	return nil
}

// Doctor directory

func (m *Model) loadDirectory() tea.Cmd {
	dir, ctx := m.directory, m.ctx
	m.loading = true
	return func() tea.Msg {
		doctors, err := dir.Fetch(ctx)
		return directoryLoadedMsg{dir: dir, doctors: doctors, err: err}
	}
}

func (m *Model) handleDirectoryLoaded(msg directoryLoadedMsg) tea.Cmd {
	if msg.dir != m.directory {
		return nil
	}
	m.loading = false
	if msg.err != nil {
		return m.sessionFailed(msg.err)
	}
	m.directory.Show(msg.doctors)
	if n := m.directory.Cards().Len(); m.cardCursor >= n {
		m.cardCursor = max(n-1, 0)
	}
	return nil
}

func (m *Model) cardColumns() int {
	cols := m.width / 40
	if cols < 1 {
		return 1
	}
	if cols > 3 {
		return 3
	}
	return cols
}

func (m *Model) handleDirectoryKeys(msg tea.KeyMsg) tea.Cmd {
	n := m.directory.Cards().Len()
	cols := m.cardColumns()
	role := m.directory.Role()

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.cardCursor > 0 {
			m.cardCursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cardCursor < n-1 {
			m.cardCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cardCursor-cols >= 0 {
			m.cardCursor -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.cardCursor+cols < n {
			m.cardCursor += cols
		}
	case key.Matches(msg, m.keys.Enter):
		return m.runCard()
	case key.Matches(msg, m.keys.Filter):
		f := m.directory.Filter()
		m.directoryFilter = &DirectoryFilterModel{Name: f.Name, Time: f.Time, Specialty: f.Specialty}
		return m.openForm(formDirectoryFilter, NewDirectoryFilterForm(m.directoryFilter))
	case key.Matches(msg, m.keys.Refresh):
		return m.loadDirectory()
	case key.Matches(msg, m.keys.Add) && role == models.RoleAdmin:
		m.doctorForm = &DoctorFormModel{}
		return m.openForm(formAddDoctor, NewDoctorForm(m.doctorForm))
	case key.Matches(msg, m.keys.Login) && role == models.RolePatient:
		return m.openLogin(models.RolePatient)
	case key.Matches(msg, m.keys.Signup) && role == models.RolePatient:
		m.signupForm = &SignupFormModel{}
		return m.openForm(formSignup, NewSignupForm(m.signupForm))
	case key.Matches(msg, m.keys.Appointments) && role == models.RoleLoggedPatient:
		return m.enter(nav.To(nav.ViewPatientAppointments))
	case key.Matches(msg, m.keys.Logout) && role != models.RolePatient:
		return m.logout()
	case key.Matches(msg, m.keys.Back) && role == models.RolePatient:
		return m.enter(nav.To(nav.ViewRoleSelect))
	}
	return nil
}

// runCard runs the selected card's action, asking first when it needs it.
func (m *Model) runCard() tea.Cmd {
	cards := m.directory.Cards().Cards()
	if m.cardCursor >= len(cards) {
		return nil
	}
	card := cards[m.cardCursor]
	if card.Action == nil {
		return nil
	}

	ctx := m.ctx
	run := func() tea.Cmd {
		return func() tea.Msg {
			return outcomesMsg{outcomes: card.Action.Run(ctx)}
		}
	}
	if card.Action.Confirm == "" {
		return run()
	}
	m.confirmForm = &ConfirmationFormModel{Message: card.Action.Confirm}
	m.pendingAction = run
	return m.openForm(formConfirm, NewConfirmationForm(m.confirmForm))
}

// Doctor dashboard

func (m *Model) loadAppointments() tea.Cmd {
	dash, ctx := m.doctorDash, m.ctx
	req, err := dash.BeginLoad()
	if err != nil {
		return m.sessionFailed(err)
	}
	m.refreshTable()
	return func() tea.Msg {
		return appointmentsLoadedMsg{res: dash.Fetch(ctx, req)}
	}
}

func (m *Model) handleAppointmentsLoaded(msg appointmentsLoadedMsg) tea.Cmd {
	if m.doctorDash == nil || !m.doctorDash.Apply(msg.res) {
		return nil
	}
	m.refreshTable()
	if exp := m.doctorDash.BannerExpiry(); !exp.IsZero() {
		return tea.Tick(exp.Sub(m.deps.Now()), func(time.Time) tea.Msg {
			return bannerExpiredMsg{}
		})
	}
	return nil
}

func (m *Model) refreshTable() {
	if m.doctorDash == nil {
		return
	}
	v := m.doctorDash.View()
	m.loading = v.Loading
	m.table.SetView(v)
}

func (m *Model) handleDoctorKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Enter):
		if row, ok := m.table.Selected(); ok {
			return m.applyOutcomes(row.OpenRecord(navigator{}))
		}
	case key.Matches(msg, m.keys.Prescription):
		if row, ok := m.table.Selected(); ok {
			return m.applyOutcomes(row.OpenPrescription(navigator{}))
		}
	case key.Matches(msg, m.keys.Filter):
		v := m.doctorDash.View()
		m.appointmentFilter = &AppointmentFilterModel{Date: v.Date, Name: v.Name, Status: v.Status}
		return m.openForm(formAppointmentFilter, NewAppointmentFilterForm(m.appointmentFilter))
	case key.Matches(msg, m.keys.Today):
		v := m.doctorDash.View()
		m.doctorDash.SetAxes("", v.Name, v.Status)
		return m.loadAppointments()
	case key.Matches(msg, m.keys.NextPage):
		if m.doctorDash.NextPage() {
			m.refreshTable()
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.doctorDash.PrevPage() {
			m.refreshTable()
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.loadAppointments()
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) openRecord(t nav.Target) tea.Cmd {
	patientID := t.Int("id")
	rec := &recordState{
		patient:  models.PatientSummary{ID: patientID},
		doctorID: t.Int("doctorId"),
	}
	if m.doctorDash != nil {
		rec.appointments = m.doctorDash.PatientAppointments(patientID)
	}
	if len(rec.appointments) > 0 {
		rec.patient = rec.appointments[0].Patient()
	}
	m.record = rec
	m.state = constants.StatePatientRecord

	if len(rec.appointments) == 0 {
		return nil
	}
	m.loading = true
	prescriptions, ctx := m.deps.Services.Prescriptions, m.ctx
	appts := rec.appointments
	return func() tea.Msg {
		out := make(map[int64][]models.Prescription, len(appts))
		for _, a := range appts {
			out[a.ID] = prescriptions.Get(ctx, a.ID)
		}
		return recordLoadedMsg{prescriptions: out}
	}
}

// Prescription

func (m *Model) openPrescription(t nav.Target) tea.Cmd {
	id := t.Int("appointmentId")
	name := t.Params.Get("patientName")
	m.state = constants.StatePrescription
	m.prescription = nil
	m.loading = true

	prescriptions, ctx := m.deps.Services.Prescriptions, m.ctx
	return func() tea.Msg {
		return prescriptionsLoadedMsg{
			appointmentID: id,
			patientName:   name,
			prescriptions: prescriptions.Get(ctx, id),
		}
	}
}

// handlePrescriptionsLoaded shows an existing prescription read-only, or
// opens the form prefilled with the patient's name.
func (m *Model) handlePrescriptionsLoaded(msg prescriptionsLoadedMsg) tea.Cmd {
	if m.state != constants.StatePrescription {
		return nil
	}
	m.loading = false
	if len(msg.prescriptions) > 0 {
		p := msg.prescriptions[0]
		if p.PatientName == "" {
			p.PatientName = msg.patientName
		}
		m.prescription = &p
		return nil
	}
	m.prescriptionForm = &PrescriptionFormModel{AppointmentID: msg.appointmentID, PatientName: msg.patientName}
	return m.openForm(formPrescription, NewPrescriptionForm(m.prescriptionForm))
}

func (m *Model) handlePrescriptionKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.enter(nav.To(nav.ViewDoctorDashboard))
	case key.Matches(msg, m.keys.Export) && m.prescription != nil:
		path := fmt.Sprintf("prescription-%d.pdf", m.prescription.AppointmentID)
		if err := export.WritePrescriptionPDF(path, export.Header{Generated: m.deps.Now()}, []models.Prescription{*m.prescription}); err != nil {
			logger.Error("PDF export failed", "path", path, "error", err)
			m.setFlash("Failed to export prescription: "+err.Error(), true)
			return nil
		}
		m.setFlash("Prescription exported to "+path, false)
	}
	return nil
}

// Patient appointments

func (m *Model) loadPatientAppointments() tea.Cmd {
	view, ctx := m.patientAppts, m.ctx
	m.loading = true
	return func() tea.Msg {
		res, err := view.Fetch(ctx)
		return patientAppointmentsLoadedMsg{view: view, res: res, err: err}
	}
}

func (m *Model) handlePatientAppointmentsLoaded(msg patientAppointmentsLoadedMsg) tea.Cmd {
	if msg.view != m.patientAppts {
		return nil
	}
	m.loading = false
	if msg.err != nil {
		return m.sessionFailed(msg.err)
	}
	m.patientAppts.Show(msg.res)
	m.apptCursor = 0
	return nil
}

func (m *Model) handlePatientAppointmentsKeys(msg tea.KeyMsg) tea.Cmd {
	page := m.patientAppts.Page()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.apptCursor > 0 {
			m.apptCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.apptCursor < len(page)-1 {
			m.apptCursor++
		}
	case key.Matches(msg, m.keys.NextPage):
		if m.patientAppts.NextPage() {
			m.apptCursor = 0
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.patientAppts.PrevPage() {
			m.apptCursor = 0
		}
	case key.Matches(msg, m.keys.Filter):
		f := m.patientAppts.Filter()
		m.patientFilter = &PatientFilterModel{Condition: f.Condition, Name: f.Name}
		return m.openForm(formPatientFilter, NewPatientFilterForm(m.patientFilter))
	case key.Matches(msg, m.keys.Refresh):
		return m.loadPatientAppointments()
	case key.Matches(msg, m.keys.Back):
		return m.enter(nav.To(nav.ViewLoggedPatientDashboard))
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	}
	return nil
}

// Forms

func (m *Model) openForm(kind formKind, form *huh.Form) tea.Cmd {
	m.form = form
	m.formKind = kind
	return m.form.Init()
}

func (m *Model) openLogin(role models.Role) tea.Cmd {
	fm := &LoginFormModel{Role: role}
	if m.loginForm != nil && m.loginForm.Role == role {
		fm.Identifier = m.loginForm.Identifier
	}
	m.loginForm = fm
	return m.openForm(formLogin, NewLoginForm(fm))
}

func (m *Model) openBooking(doctor models.Doctor, patient models.Patient) tea.Cmd {
	m.bookingForm = &BookingFormModel{
		Doctor:  doctor,
		Patient: patient,
		Date:    m.deps.Now().Format(constants.DateFormat),
	}
	return m.openForm(formBooking, NewBookingForm(m.bookingForm))
}

// reopenForm shows the form of kind again with the values it held.
func (m *Model) reopenForm(kind formKind) tea.Cmd {
	switch kind {
	case formSignup:
		return m.openForm(kind, NewSignupForm(m.signupForm))
	case formAddDoctor:
		return m.openForm(kind, NewDoctorForm(m.doctorForm))
	case formBooking:
		return m.openForm(kind, NewBookingForm(m.bookingForm))
	case formPrescription:
		return m.openForm(kind, NewPrescriptionForm(m.prescriptionForm))
	}
	return nil
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		return m.closeForm()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, m.submitForm())
	case huh.StateAborted:
		return tea.Batch(cmd, m.closeForm())
	}
	return cmd
}

func (m *Model) closeForm() tea.Cmd {
	kind := m.formKind
	m.form, m.formKind = nil, formNone
	m.pendingAction = nil

	switch {
	case kind == formLogin && m.state == constants.StateLogin:
		return m.enter(nav.To(nav.ViewRoleSelect))
	case kind == formPrescription:
		return m.enter(nav.To(nav.ViewDoctorDashboard))
	}
	return nil
}

func (m *Model) submitForm() tea.Cmd {
	kind := m.formKind
	m.form, m.formKind = nil, formNone
	ctx := m.ctx

	switch kind {
	case formLogin:
		return m.submitLogin()
	case formSignup:
		patients := m.deps.Services.Patients
		fm := m.signupForm
		next := nav.To(nav.ViewPatientLogin)
		return func() tea.Msg {
			res, err := patients.Signup(ctx, models.PatientSignup{
				Name:     strings.TrimSpace(fm.Name),
				Email:    strings.TrimSpace(fm.Email),
				Password: fm.Password,
				Phone:    strings.TrimSpace(fm.Phone),
				Address:  strings.TrimSpace(fm.Address),
			})
			return mutationDoneMsg{kind: kind, res: res, err: err, next: &next}
		}
	case formAddDoctor:
		form, err := m.directory.PrepareDoctor(m.doctorForm.NewDoctor())
		if err != nil {
			return m.handleMutationDone(mutationDoneMsg{kind: kind, err: err})
		}
		dir := m.directory
		return func() tea.Msg {
			res, err := dir.Save(ctx, form)
			return mutationDoneMsg{kind: kind, res: res, err: err}
		}
	case formBooking:
		appts := m.deps.Services.Appointments
		req := m.bookingForm.Request()
		return func() tea.Msg {
			res, err := appts.Book(ctx, req)
			return mutationDoneMsg{kind: kind, res: res, err: err}
		}
	case formPrescription:
		prescriptions := m.deps.Services.Prescriptions
		p := m.prescriptionForm.Prescription()
		next := nav.To(nav.ViewDoctorDashboard)
		return func() tea.Msg {
			res, err := prescriptions.Save(ctx, p)
			return mutationDoneMsg{kind: kind, res: res, err: err, next: &next}
		}
	case formDirectoryFilter:
		f := m.directoryFilter
		m.directory.SetCriteria(f.Name, f.Time, f.Specialty)
		m.cardCursor = 0
		return m.loadDirectory()
	case formAppointmentFilter:
		f := m.appointmentFilter
		m.doctorDash.SetAxes(strings.TrimSpace(f.Date), f.Name, f.Status)
		return m.loadAppointments()
	case formPatientFilter:
		f := m.patientFilter
		if err := m.patientAppts.SetCriteria(f.Condition, f.Name); err != nil {
			m.setFlash(apperrors.UserMessage(err), true)
			return nil
		}
		return m.loadPatientAppointments()
	case formConfirm:
		action := m.pendingAction
		m.pendingAction = nil
		if m.confirmForm.Confirmed && action != nil {
			return action()
		}
	}
	return nil
}

func (m *Model) submitLogin() tea.Cmd {
	fm := *m.loginForm
	auth, ctx := m.deps.Services.Auth, m.ctx
	m.loading = true
	return func() tea.Msg {
		var (
			token string
			err   error
		)
		switch fm.Role {
		case models.RoleAdmin:
			token, err = auth.AdminLogin(ctx, fm.Identifier, fm.Password)
		case models.RoleDoctor:
			token, err = auth.DoctorLogin(ctx, fm.Identifier, fm.Password)
		default:
			token, err = auth.PatientLogin(ctx, fm.Identifier, fm.Password)
		}
		return loginDoneMsg{role: fm.Role, token: token, err: err}
	}
}

func (m *Model) handleLoginDone(msg loginDoneMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		m.setFlash(apperrors.UserMessage(msg.err), true)
		return m.openLogin(msg.role)
	}
	target, err := router.LoginSucceeded(m.deps.Session, msg.role, msg.token)
	if err != nil {
		m.setFlash(err.Error(), true)
		return nil
	}
	m.setFlash("", false)
	return m.enter(target)
}

func (m *Model) handleMutationDone(msg mutationDoneMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		m.setFlash(apperrors.UserMessage(msg.err), true)
		if apperrors.IsSession(msg.err) {
			return m.enter(nav.To(nav.ViewRoleSelect))
		}
		return m.reopenForm(msg.kind)
	}
	if !msg.res.Success {
		text := msg.res.Message
		if msg.kind == formPrescription {
			text = "Failed to save prescription. " + text
		}
		m.setFlash(text, true)
		return m.reopenForm(msg.kind)
	}

	text := msg.res.Message
	if msg.kind == formPrescription {
		text = constants.MsgPrescriptionSaved
	}
	m.setFlash(text, false)
	var cmd tea.Cmd
	switch {
	case msg.next != nil:
		cmd = m.enter(*msg.next)
	case msg.kind == formAddDoctor:
		cmd = m.loadDirectory()
	}
	return cmd
}

var (
	_ tea.Model       = Model{}
	_ views.Navigator = navigator{}
)
