package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, 10, cfg.UI.PageSize)
	assert.Equal(t, 5*time.Second, cfg.BannerDuration())
	assert.Equal(t, 30*time.Second, cfg.Cache.DoctorTTL)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://clinic.example.com/
  timeout: 15s
  rate_limit: 4
  rate_burst: 2
ui:
  page_size: 25
cache:
  doctor_ttl: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://clinic.example.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 4.0, cfg.API.RateLimit)
	assert.Equal(t, 2, cfg.API.RateBurst)
	assert.Equal(t, 25, cfg.UI.PageSize)
	assert.Equal(t, time.Minute, cfg.Cache.DoctorTTL)
	assert.Equal(t, path, cfg.File)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CLINICDESK_API_BASE_URL", "http://10.0.0.5:9000")
	t.Setenv("CLINICDESK_UI_PAGE_SIZE", "5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:9000", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.UI.PageSize)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: not-a-url\n"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config/clinicdesk"), ExpandHome("~/.config/clinicdesk"))
	assert.Equal(t, "/etc/clinicdesk", ExpandHome("/etc/clinicdesk"))
}

func TestDefaultMatchesLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	loaded, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, loaded.API, def.API)
	assert.Equal(t, loaded.UI, def.UI)
	assert.Equal(t, loaded.Cache, def.Cache)
}
