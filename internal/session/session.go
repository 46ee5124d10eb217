// Package session holds the client's login state: the selected role and the
// bearer token issued by the backend. The token lives in the OS keyring when
// one is available and falls back to local storage otherwise.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/clinicdesk/internal/constants"
	apperrors "github.com/julianstephens/clinicdesk/internal/errors"
	"github.com/julianstephens/clinicdesk/internal/keyring"
	"github.com/julianstephens/clinicdesk/internal/logger"
	"github.com/julianstephens/clinicdesk/internal/models"
	"github.com/julianstephens/clinicdesk/internal/storage"
)

// Store is the session state shared by services, controllers and the router.
// SetRole(RoleNone) and SetToken("") remove the respective entry.
type Store interface {
	Role() models.Role
	Token() string
	SetRole(models.Role) error
	SetToken(string) error
	Clear() error
}

// Local is the Store backed by a storage provider and, optionally, the keyring.
type Local struct {
	mu         sync.Mutex
	store      storage.Provider
	useKeyring bool
	now        func() time.Time
}

type Option func(*Local)

// WithKeyring toggles keeping the token in the OS keyring.
func WithKeyring(enabled bool) Option {
	return func(l *Local) { l.useKeyring = enabled }
}

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(l *Local) { l.now = now }
}

func New(store storage.Provider, opts ...Option) *Local {
	l := &Local{
		store:      store,
		useKeyring: true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Local) Role() models.Role {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := storage.GetOr(l.store, constants.StoreKeyRole, "")
	if err != nil {
		logger.Warn("Failed to read role", "error", err)
		return models.RoleNone
	}
	role, err := models.ParseRole(raw)
	if err != nil {
		logger.Warn("Ignoring unknown stored role", "role", raw)
		return models.RoleNone
	}
	return role
}

func (l *Local) SetRole(role models.Role) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if role == models.RoleNone {
		return l.store.Delete(constants.StoreKeyRole)
	}
	return l.store.Set(constants.StoreKeyRole, string(role))
}

// Token returns the stored bearer token. An expired JWT counts as absent.
func (l *Local) Token() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	token := l.readToken()
	if token == "" {
		return ""
	}
	if Expired(token, l.now()) {
		logger.Debug("Stored token has expired")
		return ""
	}
	return token
}

func (l *Local) readToken() string {
	if l.useKeyring {
		token, err := keyring.GetToken()
		if err == nil {
			return token
		}
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Keyring unavailable, using local storage for token", "error", err)
		}
	}
	token, err := storage.GetOr(l.store, constants.StoreKeyToken, "")
	if err != nil {
		logger.Warn("Failed to read token", "error", err)
		return ""
	}
	return token
}

func (l *Local) SetToken(token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if token == "" {
		return l.deleteToken()
	}
	if l.useKeyring {
		err := keyring.SetToken(token)
		if err == nil {
			// drop any stale fallback copy
			return l.store.Delete(constants.StoreKeyToken)
		}
		logger.Warn("Keyring unavailable, storing token locally", "error", err)
	}
	return l.store.Set(constants.StoreKeyToken, token)
}

func (l *Local) deleteToken() error {
	if l.useKeyring {
		if err := keyring.DeleteToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Failed to delete token from keyring", "error", err)
		}
	}
	return l.store.Delete(constants.StoreKeyToken)
}

func (l *Local) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.deleteToken(); err != nil {
		return err
	}
	return l.store.Delete(constants.StoreKeyRole)
}

// Current snapshots the store into a models.Session.
func Current(s Store) models.Session {
	return models.Session{Role: s.Role(), Token: s.Token()}
}

// Guard enforces the role/token invariant. A privileged role without a usable
// token is logged out, dropping the role and any stored expired token, and
// yields ErrSessionInvalid; callers must then route
// back to role selection without issuing any request.
func Guard(s Store) error {
	if Current(s).Valid() {
		return nil
	}
	logger.Info("Invalid session, forcing logout", "role", s.Role().String())
	if err := s.SetToken(""); err != nil {
		logger.Warn("Failed to clear token", "error", err)
	}
	if err := s.SetRole(models.RoleNone); err != nil {
		logger.Warn("Failed to clear role", "error", err)
	}
	return apperrors.ErrSessionInvalid
}

// Expired reports whether token is a JWT whose exp claim is at or before now.
// Tokens that are not JWTs, or carry no exp, never expire client-side.
func Expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// Memory is a process-local Store.
type Memory struct {
	mu    sync.Mutex
	role  models.Role
	token string
}

func NewMemory(role models.Role, token string) *Memory {
	return &Memory{role: role, token: token}
}

func (m *Memory) Role() models.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.role
}

func (m *Memory) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Memory) SetRole(role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.role = role
	return nil
}

func (m *Memory) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.role, m.token = models.RoleNone, ""
	return nil
}
