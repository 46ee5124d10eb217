package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/clinicdesk/internal/constants"
)

// DefaultBaseURL is where the clinic backend listens in a stock deployment.
const DefaultBaseURL = "http://localhost:8080"

type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	RateBurst int           `mapstructure:"rate_burst"`
}

type UIConfig struct {
	PageSize      int `mapstructure:"page_size"`
	BannerSeconds int `mapstructure:"banner_seconds"`
}

type CacheConfig struct {
	DoctorTTL time.Duration `mapstructure:"doctor_ttl"`
}

type Config struct {
	API   APIConfig   `mapstructure:"api"`
	UI    UIConfig    `mapstructure:"ui"`
	Cache CacheConfig `mapstructure:"cache"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// BannerDuration is how long an error banner stays visible.
func (c *Config) BannerDuration() time.Duration {
	return time.Duration(c.UI.BannerSeconds) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("api.rate_burst", 1)
	v.SetDefault("ui.page_size", constants.DefaultPageSize)
	v.SetDefault("ui.banner_seconds", int(constants.BannerDuration/time.Second))
	v.SetDefault("cache.doctor_ttl", constants.DefaultDoctorCacheTTL.String())
}

// Default is the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		API:   APIConfig{BaseURL: DefaultBaseURL, RateBurst: 1},
		UI:    UIConfig{PageSize: constants.DefaultPageSize, BannerSeconds: int(constants.BannerDuration / time.Second)},
		Cache: CacheConfig{DoctorTTL: constants.DefaultDoctorCacheTTL},
	}
}

// Load reads configuration from path, or from the default config directory
// when path is empty. A missing file is not an error. Environment variables
// prefixed with CLINICDESK_ (e.g. CLINICDESK_API_BASE_URL) override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(constants.DefaultConfigFile, filepath.Ext(constants.DefaultConfigFile)))
		v.SetConfigType("yaml")
		v.AddConfigPath(ExpandHome(constants.DefaultConfigDir))
	}

	read := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			read = false
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if read {
		cfg.File = v.ConfigFileUsed()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative")
	}
	if c.API.RateBurst < 1 {
		c.API.RateBurst = 1
	}
	if c.UI.PageSize < 1 {
		return fmt.Errorf("ui.page_size must be at least 1, got %d", c.UI.PageSize)
	}
	if c.UI.BannerSeconds < 0 {
		return fmt.Errorf("ui.banner_seconds must not be negative")
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
