// Package router decides where each role lands and performs the session
// transitions behind role selection and logout.
package router

import (
	"fmt"

	"github.com/julianstephens/clinicdesk/internal/logger"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/nav"
	"github.com/julianstephens/clinicdesk/internal/session"
)

type route struct {
	authed nav.View
	anon   nav.View
}

var routes = map[models.Role]route{
	models.RoleAdmin:         {authed: nav.ViewAdminDashboard, anon: nav.ViewAdminLogin},
	models.RoleDoctor:        {authed: nav.ViewDoctorDashboard, anon: nav.ViewDoctorLogin},
	models.RolePatient:       {authed: nav.ViewLoggedPatientDashboard, anon: nav.ViewPatientDashboard},
	models.RoleLoggedPatient: {authed: nav.ViewLoggedPatientDashboard, anon: nav.ViewLoggedPatientDashboard},
}

// Route is where role lands given whether a token is held. Unknown roles and
// RoleNone go to role selection.
func Route(role models.Role, hasToken bool) nav.Target {
	r, ok := routes[role]
	if !ok {
		return nav.To(nav.ViewRoleSelect)
	}
	if hasToken {
		return nav.To(r.authed)
	}
	return nav.To(r.anon)
}

// Resolve routes the stored session, enforcing the role/token invariant first.
func Resolve(s session.Store) nav.Target {
	if err := session.Guard(s); err != nil {
		return nav.To(nav.ViewRoleSelect)
	}
	return Route(s.Role(), s.Token() != "")
}

// SelectRole persists role and returns where it lands. The held token is
// kept so a returning user skips the login form.
func SelectRole(s session.Store, role models.Role) (nav.Target, error) {
	if _, ok := routes[role]; !ok || role == models.RoleLoggedPatient {
		return nav.Target{}, fmt.Errorf("cannot select role %q", role.String())
	}
	if err := s.SetRole(role); err != nil {
		return nav.Target{}, fmt.Errorf("failed to save role: %w", err)
	}
	logger.Info("Role selected", "role", role.String())
	return Route(role, s.Token() != ""), nil
}

// LoginSucceeded stores the token returned by a login and the role it
// grants. A patient login promotes the session to loggedPatient.
func LoginSucceeded(s session.Store, role models.Role, token string) (nav.Target, error) {
	if role == models.RolePatient {
		role = models.RoleLoggedPatient
	}
	if err := s.SetToken(token); err != nil {
		return nav.Target{}, fmt.Errorf("failed to save token: %w", err)
	}
	if err := s.SetRole(role); err != nil {
		return nav.Target{}, fmt.Errorf("failed to save role: %w", err)
	}
	logger.Info("Logged in", "role", role.String())
	return Route(role, true), nil
}

// Logout clears the whole session and returns to role selection.
func Logout(s session.Store) (nav.Target, error) {
	if err := s.Clear(); err != nil {
		return nav.Target{}, fmt.Errorf("failed to clear session: %w", err)
	}
	logger.Info("Logged out")
	return nav.To(nav.ViewRoleSelect), nil
}

// LogoutPatient drops the token but keeps the visitor on the anonymous
// patient dashboard.
func LogoutPatient(s session.Store) (nav.Target, error) {
	if err := s.SetToken(""); err != nil {
		return nav.Target{}, fmt.Errorf("failed to clear token: %w", err)
	}
	if err := s.SetRole(models.RolePatient); err != nil {
		return nav.Target{}, fmt.Errorf("failed to save role: %w", err)
	}
	logger.Info("Patient logged out")
	return nav.To(nav.ViewPatientDashboard), nil
}

// LogoutFor picks the logout flavor for the current role.
func LogoutFor(s session.Store) (nav.Target, error) {
	if s.Role() == models.RoleLoggedPatient || s.Role() == models.RolePatient {
		return LogoutPatient(s)
	}
	return Logout(s)
}

// EnterRoleSelect is run whenever the role selection page is shown; arriving
// there always starts from an empty session.
func EnterRoleSelect(s session.Store) nav.Target {
	if err := s.Clear(); err != nil {
		logger.Warn("Failed to clear session", "error", err)
	}
	return nav.To(nav.ViewRoleSelect)
}

// ForceLogout is taken when a privileged role turns out to have no token.
// The role is dropped and the user is sent to target.
func ForceLogout(s session.Store, target nav.Target) nav.Target {
	if err := s.SetRole(models.RoleNone); err != nil {
		logger.Warn("Failed to clear role", "error", err)
	}
	if target.View == nav.ViewPatientDashboard {
		if err := s.SetRole(models.RolePatient); err != nil {
			logger.Warn("Failed to save role", "error", err)
		}
	}
	return target
}
