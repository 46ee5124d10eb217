package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/clinicdesk/internal/constants"
	"github.com/julianstephens/clinicdesk/internal/logger"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/session"
	"github.com/julianstephens/clinicdesk/internal/views"
)

// AppointmentLister is the query the doctor dashboard reloads from.
type AppointmentLister interface {
	List(ctx context.Context, date string, patientName *string) ([]models.Appointment, error)
}

// Banner is a transient message that hides itself after Expires.
type Banner struct {
	Message string
	Expires time.Time
}

func (b Banner) Visible(now time.Time) bool {
	return b.Message != "" && now.Before(b.Expires)
}

// Table is what the appointment table shows: either rows, or a single
// placeholder row spanning Colspan columns.
type Table struct {
	Rows        []views.Row
	Placeholder string
	Colspan     int
}

// LoadRequest is one issued reload. Seq increases with every request.
type LoadRequest struct {
	Seq  uint64
	Date string
	Name *string
}

// LoadResult is the response to a LoadRequest.
type LoadResult struct {
	Seq          uint64
	Appointments []models.Appointment
	Err          error
}

// DoctorView is a snapshot of the dashboard for rendering.
type DoctorView struct {
	Date    string
	Name    string
	Status  string
	Loading bool
	Table   Table
	Pager   Pager
	Banner  string
	// ScrollToTable is set after pager navigation.
	ScrollToTable bool
}

type Option func(*DoctorDashboard)

// WithClock overrides the clock used for today and banner expiry.
func WithClock(now func() time.Time) Option {
	return func(d *DoctorDashboard) { d.now = now }
}

func WithPageSize(n int) Option {
	return func(d *DoctorDashboard) {
		if n > 0 {
			d.pager.Size = n
		}
	}
}

func WithBannerDuration(ttl time.Duration) Option {
	return func(d *DoctorDashboard) { d.bannerTTL = ttl }
}

// DoctorDashboard drives the doctor's appointment table over three axes:
// date, patient name and status. Any axis change resets to page 1 and
// reloads. Only the newest issued load may update the table.
type DoctorDashboard struct {
	mu sync.Mutex

	appts     AppointmentLister
	sess      session.Store
	now       func() time.Time
	bannerTTL time.Duration

	date   string
	name   *string
	status string

	loading  bool
	seq      uint64
	loaded   []models.Appointment
	filtered []models.Appointment
	pager    Pager
	table    Table
	banner   Banner
	scroll   bool
}

func NewDoctorDashboard(appts AppointmentLister, sess session.Store, opts ...Option) *DoctorDashboard {
	d := &DoctorDashboard{
		appts:     appts,
		sess:      sess,
		now:       time.Now,
		bannerTTL: constants.BannerDuration,
		pager:     NewPager(constants.DefaultPageSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.date = d.today()
	return d
}

func (d *DoctorDashboard) today() string {
	return d.now().Format(constants.DateFormat)
}

// Load runs a full reload cycle synchronously.
func (d *DoctorDashboard) Load(ctx context.Context) error {
	req, err := d.BeginLoad()
	if err != nil {
		return err
	}
	d.Apply(d.Fetch(ctx, req))
	return nil
}

// SetDate changes the date axis and reloads.
func (d *DoctorDashboard) SetDate(ctx context.Context, date string) error {
	d.mu.Lock()
	d.date = date
	d.pager.Current = 1
	d.mu.Unlock()
	return d.Load(ctx)
}

// Today resets the date axis to the current date and reloads.
func (d *DoctorDashboard) Today(ctx context.Context) error {
	return d.SetDate(ctx, d.today())
}

// SetName changes the name axis and reloads. Blank input clears the filter.
func (d *DoctorDashboard) SetName(ctx context.Context, raw string) error {
	d.mu.Lock()
	d.name = optionalName(raw)
	d.pager.Current = 1
	d.mu.Unlock()
	return d.Load(ctx)
}

// SetStatus changes the status axis and reloads. "" shows every status.
func (d *DoctorDashboard) SetStatus(ctx context.Context, status string) error {
	d.mu.Lock()
	d.status = status
	d.pager.Current = 1
	d.mu.Unlock()
	return d.Load(ctx)
}

// SetAxes updates every axis at once without loading; callers follow with
// BeginLoad. Used by hosts that run the fetch off the UI loop.
func (d *DoctorDashboard) SetAxes(date, name, status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if date == "" {
		date = d.today()
	}
	d.date = date
	d.name = optionalName(name)
	d.status = status
	d.pager.Current = 1
}

// BeginLoad checks the session, marks the table loading and issues a new
// request sequence number. It fails with ErrSessionInvalid, before any
// network call, when the session is not usable.
func (d *DoctorDashboard) BeginLoad() (LoadRequest, error) {
	if err := session.Guard(d.sess); err != nil {
		return LoadRequest{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.loading = true
	d.scroll = false

	var name *string
	if d.name != nil {
		n := *d.name
		name = &n
	}
	return LoadRequest{Seq: d.seq, Date: d.date, Name: name}, nil
}

// Fetch performs the request for req. The status axis is never sent.
func (d *DoctorDashboard) Fetch(ctx context.Context, req LoadRequest) LoadResult {
	appts, err := d.appts.List(ctx, req.Date, req.Name)
	return LoadResult{Seq: req.Seq, Appointments: appts, Err: err}
}

// Apply folds a load result into the table. A result older than the newest
// issued request is discarded and Apply reports false.
func (d *DoctorDashboard) Apply(res LoadResult) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if res.Seq != d.seq {
		logger.Debug("Discarding stale appointment load", "seq", res.Seq, "latest", d.seq)
		return false
	}
	d.loading = false

	if res.Err != nil {
		logger.Error("Error loading appointments", "date", d.date, "error", res.Err)
		d.banner = Banner{Message: constants.MsgLoadAppointments, Expires: d.now().Add(d.bannerTTL)}
		d.loaded, d.filtered = nil, nil
		d.pager.Reset(0)
		d.table = Table{Placeholder: constants.MsgLoadAppointments, Colspan: len(views.PatientColumns)}
		return true
	}

	d.loaded = res.Appointments
	d.filtered = ApplyStatus(res.Appointments, d.status)
	d.pager.Reset(len(d.filtered))
	d.render()
	return true
}

// render rebuilds the table from the filtered collection and current page.
func (d *DoctorDashboard) render() {
	if len(d.filtered) == 0 {
		d.table = Table{Placeholder: views.NoAppointmentsMessage(d.date), Colspan: len(views.PatientColumns)}
		return
	}
	page := Window(d.filtered, d.pager)
	rows := make([]views.Row, 0, len(page))
	for _, a := range page {
		rows = append(rows, views.PatientRow(a.Patient(), a.ID, a.DoctorID))
	}
	d.table = Table{Rows: rows}
}

// NextPage moves forward one page without a network call.
func (d *DoctorDashboard) NextPage() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pager.Next() {
		return false
	}
	d.render()
	d.scroll = true
	return true
}

// PrevPage moves back one page without a network call.
func (d *DoctorDashboard) PrevPage() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pager.Prev() {
		return false
	}
	d.render()
	d.scroll = true
	return true
}

// View snapshots the dashboard. The banner is included only while visible.
func (d *DoctorDashboard) View() DoctorView {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := DoctorView{
		Date:          d.date,
		Status:        d.status,
		Loading:       d.loading,
		Table:         d.table,
		Pager:         d.pager,
		ScrollToTable: d.scroll,
	}
	if d.name != nil {
		v.Name = *d.name
	}
	if d.banner.Visible(d.now()) {
		v.Banner = d.banner.Message
	}
	return v
}

// BannerExpiry reports when the current banner hides, zero when none is shown.
func (d *DoctorDashboard) BannerExpiry() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.banner.Visible(d.now()) {
		return time.Time{}
	}
	return d.banner.Expires
}

// PatientAppointments returns the loaded appointments belonging to patientID,
// ignoring the status axis.
func (d *DoctorDashboard) PatientAppointments(patientID int64) []models.Appointment {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []models.Appointment
	for _, a := range d.loaded {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out
}
