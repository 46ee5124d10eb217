package apptable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/clinicdesk/internal/dashboard"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/views"
)

func rowsView(n int, scroll bool) dashboard.DoctorView {
	rows := make([]views.Row, 0, n)
	for i := 1; i <= n; i++ {
		p := models.PatientSummary{ID: int64(i), Name: "Patient", Status: models.StatusPending}
		rows = append(rows, views.PatientRow(p, int64(100+i), 3))
	}
	pager := dashboard.NewPager(10)
	pager.Reset(n)
	return dashboard.DoctorView{Table: dashboard.Table{Rows: rows}, Pager: pager, ScrollToTable: scroll}
}

func placeholderView(msg string) dashboard.DoctorView {
	return dashboard.DoctorView{
		Table: dashboard.Table{Placeholder: msg, Colspan: len(views.PatientColumns)},
		Pager: dashboard.NewPager(10),
	}
}

func TestSelectedAfterEmptyLoad(t *testing.T) {
	m := New(100, 10)

	m.SetView(placeholderView(""))
	_, ok := m.Selected()
	assert.False(t, ok)

	m.SetView(rowsView(3, false))
	row, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), row.Patient.ID)
	assert.Equal(t, int64(101), row.AppointmentID)
}

func TestSelectedAfterPlaceholderReload(t *testing.T) {
	m := New(100, 10)
	m.SetView(rowsView(2, false))
	m.SetView(placeholderView(views.NoAppointmentsMessage("2024-03-01")))
	assert.Contains(t, m.View(), "No Appointments found for 2024-03-01.")

	m.SetView(rowsView(2, false))
	row, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), row.Patient.ID)
}

func TestCursorKeptWithinRows(t *testing.T) {
	m := New(100, 10)
	m.SetView(rowsView(5, false))
	m.table.GotoBottom()

	m.SetView(rowsView(2, false))
	row, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), row.Patient.ID)

	m.SetView(rowsView(2, true))
	row, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), row.Patient.ID)
}
