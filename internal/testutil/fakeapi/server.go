// Package fakeapi is an in-memory clinic backend for tests. It speaks the same
// endpoints and envelopes as the real service and records every call.
package fakeapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/clinicdesk/internal/models"
)

const (
	AdminUsername = "admin"
	AdminPassword = "admin@1234"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
	Body   []byte
}

type Server struct {
	*httptest.Server

	mu            sync.Mutex
	calls         []Call
	failures      map[string]int
	secret        []byte
	nextID        int64
	doctors       []models.Doctor
	doctorPass    map[string]string
	patients      []models.Patient
	patientPass   map[string]string
	appointments  []models.Appointment
	prescriptions []models.Prescription
}

// New starts a fake backend that shuts down with the test.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		failures:    make(map[string]int),
		secret:      []byte("fakeapi-secret"),
		nextID:      100,
		doctorPass:  make(map[string]string),
		patientPass: make(map[string]string),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Post("/admin", s.handleAdminLogin)
	r.Post("/doctor/login", s.handleDoctorLogin)
	r.Get("/doctor", s.handleListDoctors)
	r.Get("/doctor/filter", s.handleFilterDoctors)
	r.With(s.auth).Post("/doctor", s.handleSaveDoctor)
	r.With(s.auth).Delete("/doctor/{id}", s.handleDeleteDoctor)

	r.Post("/patient", s.handleSignup)
	r.Post("/patient/login", s.handlePatientLogin)
	r.With(s.auth).Get("/patient", s.handlePatientProfile)
	r.With(s.auth).Get("/patient/appointments", s.handlePatientAppointments)
	r.With(s.auth).Get("/patient/filter", s.handlePatientFilter)

	r.With(s.auth).Get("/appointments", s.handleListAppointments)
	r.With(s.auth).Post("/appointments", s.handleBook)
	r.With(s.auth).Put("/appointments", s.handleUpdate)
	r.With(s.auth).Delete("/appointments/{id}", s.handleCancel)

	r.With(s.auth).Post("/prescription", s.handleSavePrescription)
	r.With(s.auth).Get("/prescription/{appointmentId}", s.handleGetPrescriptions)

	return r
}

// Seeding

func (s *Server) AddDoctor(d models.Doctor, password string) models.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == 0 {
		d.ID = s.id()
	}
	s.doctors = append(s.doctors, d)
	s.doctorPass[d.Email] = password
	return d
}

func (s *Server) AddPatient(p models.Patient, password string) models.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.patients = append(s.patients, p)
	s.patientPass[p.Email] = password
	return p
}

func (s *Server) AddAppointment(a models.Appointment) models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	}
	s.appointments = append(s.appointments, a)
	return a
}

func (s *Server) AddPrescription(p models.Prescription) models.Prescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = strconv.FormatInt(s.id(), 10)
	}
	s.prescriptions = append(s.prescriptions, p)
	return p
}

// Doctors returns a copy of the stored doctors.
func (s *Server) Doctors() []models.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Doctor(nil), s.doctors...)
}

// Appointments returns a copy of the stored appointments.
func (s *Server) Appointments() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Appointment(nil), s.appointments...)
}

// Fail makes every request to method+path answer with status until cleared
// with status 0. Path is the request path, not the route pattern.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(s.failures, key)
		return
	}
	s.failures[key] = status
}

// Token issues a backend token for subject with the given role.
func (s *Server) Token(subject, role string) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// Calls returns every recorded request in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the recorded requests for method and path.
func (s *Server) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// Middleware

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		status, fail := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type claimsKey struct{}

type claims struct {
	Subject string
	Role    string
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Missing token"})
			return
		}
		mc := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, mc, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.secret, nil
		})
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
			return
		}
		sub, _ := mc.GetSubject()
		role, _ := mc["role"].(string)
		ctx := r.Context()
		r = r.WithContext(withClaims(ctx, claims{Subject: sub, Role: role}))
		next.ServeHTTP(w, r)
	})
}

// Handlers

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var body models.AdminCredentials
	if !decode(w, r, &body) {
		return
	}
	if body.Username != AdminUsername || body.Password != AdminPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials!"})
		return
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{Token: s.Token(body.Username, "admin")})
}

func (s *Server) handleDoctorLogin(w http.ResponseWriter, r *http.Request) {
	var body models.DoctorCredentials
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	pass, ok := s.doctorPass[body.Email]
	s.mu.Unlock()
	if !ok || pass != body.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials!"})
		return
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{Token: s.Token(body.Email, "doctor")})
}

func (s *Server) handleListDoctors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.DoctorList{Doctors: s.Doctors()})
}

func (s *Server) handleFilterDoctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.ToLower(q.Get("name"))
	slot := q.Get("time")
	specialty := strings.ToLower(q.Get("specialty"))

	out := []models.Doctor{}
	for _, d := range s.Doctors() {
		if name != "" && !strings.Contains(strings.ToLower(d.Name), name) {
			continue
		}
		if specialty != "" && strings.ToLower(d.Specialty) != specialty {
			continue
		}
		if slot != "" && !hasSlot(d.AvailableTimes, slot) {
			continue
		}
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, models.DoctorList{Doctors: out, Count: len(out)})
}

func (s *Server) handleSaveDoctor(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, "admin") {
		return
	}
	var body models.NewDoctor
	if !decode(w, r, &body) {
		return
	}
	for _, d := range s.Doctors() {
		if d.Email == body.Email {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Doctor already exists"})
			return
		}
	}
	s.AddDoctor(models.Doctor{
		Name:           body.Name,
		Email:          body.Email,
		Phone:          body.Phone,
		Specialty:      body.Specialty,
		AvailableTimes: body.AvailableTimes,
	}, body.Password)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Doctor added to db"})
}

func (s *Server) handleDeleteDoctor(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, "admin") {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.doctors {
		if d.ID == id {
			s.doctors = append(s.doctors[:i], s.doctors[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Doctor deleted successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Doctor not found with id"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body models.PatientSignup
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	_, exists := s.patientPass[body.Email]
	s.mu.Unlock()
	if exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Patient with email id or phone no already exist"})
		return
	}
	s.AddPatient(models.Patient{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Address: body.Address,
	}, body.Password)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Signup successful"})
}

func (s *Server) handlePatientLogin(w http.ResponseWriter, r *http.Request) {
	var body models.PatientCredentials
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	pass, ok := s.patientPass[body.Identifier]
	s.mu.Unlock()
	if !ok || pass != body.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials!"})
		return
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{Token: s.Token(body.Identifier, "patient")})
}

func (s *Server) handlePatientProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.currentPatient(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Patient not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"patient": p})
}

func (s *Server) handlePatientAppointments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid patient id"})
		return
	}
	out := []models.Appointment{}
	for _, a := range s.Appointments() {
		if a.PatientID == id {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, models.AppointmentList{Appointments: out})
}

func (s *Server) handlePatientFilter(w http.ResponseWriter, r *http.Request) {
	p, ok := s.currentPatient(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Patient not found"})
		return
	}
	q := r.URL.Query()
	condition := q.Get("condition")
	name := strings.ToLower(q.Get("name"))
	now := time.Now()

	out := []models.Appointment{}
	for _, a := range s.Appointments() {
		if a.PatientID != p.ID {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(a.DoctorName), name) {
			continue
		}
		if condition != "" {
			at, err := time.ParseInLocation("2006-01-02T15:04:05", a.AppointmentTime, time.Local)
			if err != nil {
				continue
			}
			if condition == "past" && !at.Before(now) || condition == "future" && at.Before(now) {
				continue
			}
		}
		out = append(out, a)
	}
	writeJSON(w, http.StatusOK, models.AppointmentList{Appointments: out})
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	name := q.Get("patientName")
	if name == "null" {
		name = ""
	}
	name = strings.ToLower(name)

	out := []models.Appointment{}
	for _, a := range s.Appointments() {
		if date != "" && !strings.HasPrefix(a.AppointmentTime, date) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(a.PatientName), name) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentTime < out[j].AppointmentTime })
	writeJSON(w, http.StatusOK, models.AppointmentList{Appointments: out})
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	var body models.AppointmentRequest
	if !decode(w, r, &body) {
		return
	}
	a, err := s.buildAppointment(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	s.AddAppointment(a)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Appointment Booked Successfully"})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var body models.AppointmentRequest
	if !decode(w, r, &body) {
		return
	}
	a, err := s.buildAppointment(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == body.ID {
			a.ID = body.ID
			s.appointments[i] = a
			writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment Updated Successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Appointment not found"})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.appointments {
		if a.ID == id {
			s.appointments = append(s.appointments[:i], s.appointments[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment Cancelled successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Appointment not found"})
}

func (s *Server) handleSavePrescription(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, "doctor") {
		return
	}
	var body models.Prescription
	if !decode(w, r, &body) {
		return
	}
	s.AddPrescription(body)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Prescription saved"})
}

func (s *Server) handleGetPrescriptions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "appointmentId")
	if !ok {
		return
	}
	s.mu.Lock()
	out := []models.Prescription{}
	for _, p := range s.prescriptions {
		if p.AppointmentID == id {
			out = append(out, p)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, models.PrescriptionList{Prescriptions: out, Count: len(out)})
}

// Helpers

func (s *Server) currentPatient(r *http.Request) (models.Patient, bool) {
	c := claimsFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if p.Email == c.Subject {
			return p, true
		}
	}
	return models.Patient{}, false
}

func (s *Server) buildAppointment(body models.AppointmentRequest) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := models.Appointment{
		DoctorID:        body.Doctor.ID,
		PatientID:       body.Patient.ID,
		AppointmentTime: body.AppointmentTime,
		Status:          models.StatusPending,
	}
	if body.Status == 1 {
		a.Status = models.StatusConsulted
	}

	found := false
	for _, d := range s.doctors {
		if d.ID == body.Doctor.ID {
			a.DoctorName = d.Name
			found = true
		}
	}
	if !found {
		return a, errors.New("Doctor not found")
	}
	found = false
	for _, p := range s.patients {
		if p.ID == body.Patient.ID {
			a.PatientName = p.Name
			a.PatientEmail = p.Email
			a.PatientPhone = p.Phone
			a.PatientAddress = p.Address
			found = true
		}
	}
	if !found {
		return a, errors.New("Patient not found")
	}
	return a, nil
}

func requireRole(w http.ResponseWriter, r *http.Request, role string) bool {
	if claimsFrom(r).Role != role {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid id"})
		return 0, false
	}
	return id, true
}

func hasSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
