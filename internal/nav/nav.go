// Package nav names the views a user can be sent to. Each target keeps the
// path the web front-end used so links and logs stay recognizable.
package nav

import (
	"net/url"
	"strconv"
)

type View int

const (
	ViewRoleSelect View = iota
	ViewAdminLogin
	ViewDoctorLogin
	ViewPatientLogin
	ViewAdminDashboard
	ViewDoctorDashboard
	ViewPatientDashboard
	ViewLoggedPatientDashboard
	ViewPatientAppointments
	ViewPatientRecord
	ViewAddPrescription
)

var viewPaths = map[View]string{
	ViewRoleSelect:             "/",
	ViewAdminLogin:             "/pages/adminLogin.html",
	ViewDoctorLogin:            "/pages/doctorLogin.html",
	ViewPatientLogin:           "/pages/patientLogin.html",
	ViewAdminDashboard:         "/adminDashboard",
	ViewDoctorDashboard:        "/doctorDashboard",
	ViewPatientDashboard:       "/pages/patientDashboard.html",
	ViewLoggedPatientDashboard: "/pages/loggedPatientDashboard.html",
	ViewPatientAppointments:    "/pages/patientAppointments.html",
	ViewPatientRecord:          "/pages/patientRecord.html",
	ViewAddPrescription:        "/pages/addPrescription.html",
}

func (v View) String() string {
	return viewPaths[v]
}

// Target is a navigation destination with its query parameters.
type Target struct {
	View   View
	Params url.Values
}

func To(v View) Target {
	return Target{View: v}
}

// Path renders the target in its web form, e.g.
// /pages/patientRecord.html?doctorId=3&id=7.
func (t Target) Path() string {
	p := t.View.String()
	if len(t.Params) > 0 {
		p += "?" + t.Params.Encode()
	}
	return p
}

// Int reads an integer parameter, returning 0 when absent or malformed.
func (t Target) Int(key string) int64 {
	n, _ := strconv.ParseInt(t.Params.Get(key), 10, 64)
	return n
}

// PatientRecord is the patient-record view for a patient seen by a doctor.
func PatientRecord(patientID, doctorID int64) Target {
	return Target{View: ViewPatientRecord, Params: url.Values{
		"id":       {strconv.FormatInt(patientID, 10)},
		"doctorId": {strconv.FormatInt(doctorID, 10)},
	}}
}

// AddPrescription is the prescription form for an appointment.
func AddPrescription(appointmentID int64, patientName string) Target {
	return Target{View: ViewAddPrescription, Params: url.Values{
		"appointmentId": {strconv.FormatInt(appointmentID, 10)},
		"patientName":   {patientName},
	}}
}
