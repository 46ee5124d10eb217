package storage

import "errors"

// ErrNotFound is returned by Get when a key has never been set or was deleted.
var ErrNotFound = errors.New("key not found")

// Provider is the client-local key/value store that outlives a single run.
// It holds the selected role, the token fallback and UI preferences.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Entries
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// GetOr returns the stored value for key, or def when it is absent.
// Any error other than ErrNotFound is returned unchanged.
func GetOr(p Provider, key, def string) (string, error) {
	v, err := p.Get(key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
