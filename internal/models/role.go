package models

import (
	"fmt"
	"strings"
)

// Role is the sole basis for what a dashboard renders and which actions it offers
type Role string

const (
	RoleNone          Role = ""
	RoleAdmin         Role = "admin"
	RoleDoctor        Role = "doctor"
	RolePatient       Role = "patient"
	RoleLoggedPatient Role = "loggedPatient"
)

// ParseRole converts user input into a Role. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RoleNone, nil
	case "admin":
		return RoleAdmin, nil
	case "doctor":
		return RoleDoctor, nil
	case "patient":
		return RolePatient, nil
	case "loggedpatient", "logged-patient", "logged_patient":
		return RoleLoggedPatient, nil
	default:
		return RoleNone, fmt.Errorf("unknown role: %q", s)
	}
}

// Privileged reports whether the role requires a token to be valid
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleDoctor || r == RoleLoggedPatient
}

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}

// Session is the client-side login state: the selected role and its bearer token
type Session struct {
	Role  Role
	Token string
}

// Valid reports whether the session satisfies the role/token invariant.
// A privileged role without a token is invalid and must force a logout.
func (s Session) Valid() bool {
	return !(s.Role.Privileged() && s.Token == "")
}

// HasToken reports whether a bearer token is present
func (s Session) HasToken() bool {
	return s.Token != ""
}
