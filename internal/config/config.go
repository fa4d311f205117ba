// Package config loads and validates application configuration.
// Values come from an optional YAML file overridden by environment
// variables; missing credentials for the external source are fatal at
// startup, never per-sync.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "telenews/pkg/config"
)

// Config is the full server configuration.
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	DatabaseURL string `yaml:"database_url"`
	MediaDir    string `yaml:"media_dir"`
	// AuthSecret signs API tokens for mutating routes. Empty leaves those
	// routes unprotected (local setups).
	AuthSecret string `yaml:"auth_secret"`

	Source SourceConfig `yaml:"source"`
	Sync   SyncConfig   `yaml:"sync"`
}

// SourceConfig configures the channel source adapter.
type SourceConfig struct {
	BaseURL       string        `yaml:"base_url"`
	UserAgent     string        `yaml:"user_agent"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
}

// SyncConfig configures the scheduler and the sync engine.
type SyncConfig struct {
	Schedule    string        `yaml:"schedule"`
	Timezone    string        `yaml:"timezone"`
	JobTimeout  time.Duration `yaml:"job_timeout"`
	Window      int           `yaml:"window"`
	MaxParallel int           `yaml:"max_parallel"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		MediaDir:   "media",
		Source: SourceConfig{
			UserAgent:     "telenews/1.0",
			FetchTimeout:  30 * time.Second,
			RatePerSecond: 2,
			Burst:         4,
		},
		Sync: SyncConfig{
			Schedule:    "@every 1h",
			Timezone:    "UTC",
			JobTimeout:  15 * time.Minute,
			Window:      40,
			MaxParallel: 4,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// it exists), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// No file is fine, env and defaults carry the configuration.
		default:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.ListenAddr = pkgconfig.GetEnvString("LISTEN_ADDR", c.ListenAddr)
	c.DatabaseURL = pkgconfig.GetEnvString("DATABASE_URL", c.DatabaseURL)
	c.MediaDir = pkgconfig.GetEnvString("MEDIA_DIR", c.MediaDir)
	c.AuthSecret = pkgconfig.GetEnvString("AUTH_SECRET", c.AuthSecret)

	c.Source.BaseURL = pkgconfig.GetEnvString("SOURCE_BASE_URL", c.Source.BaseURL)
	c.Source.UserAgent = pkgconfig.GetEnvString("SOURCE_USER_AGENT", c.Source.UserAgent)
	c.Source.FetchTimeout = pkgconfig.GetEnvDuration("SOURCE_FETCH_TIMEOUT", c.Source.FetchTimeout)
	c.Source.RatePerSecond = pkgconfig.GetEnvFloat("SOURCE_RATE_PER_SECOND", c.Source.RatePerSecond)
	c.Source.Burst = pkgconfig.GetEnvInt("SOURCE_BURST", c.Source.Burst)

	c.Sync.Schedule = pkgconfig.GetEnvString("SYNC_SCHEDULE", c.Sync.Schedule)
	c.Sync.Timezone = pkgconfig.GetEnvString("SYNC_TIMEZONE", c.Sync.Timezone)
	c.Sync.JobTimeout = pkgconfig.GetEnvDuration("SYNC_JOB_TIMEOUT", c.Sync.JobTimeout)
	c.Sync.Window = pkgconfig.GetEnvInt("SYNC_WINDOW", c.Sync.Window)
	c.Sync.MaxParallel = pkgconfig.GetEnvInt("SYNC_MAX_PARALLEL", c.Sync.MaxParallel)
}

// Validate checks the configuration. Failures here abort startup.
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Source.BaseURL == "" {
		errs = append(errs, errors.New("SOURCE_BASE_URL is required"))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Source.FetchTimeout); err != nil {
		errs = append(errs, fmt.Errorf("source fetch timeout: %w", err))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Sync.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("sync job timeout: %w", err))
	}
	if c.Sync.Window <= 0 {
		errs = append(errs, errors.New("sync window must be positive"))
	}
	if err := pkgconfig.ValidateIntRange(c.Sync.MaxParallel, 1, 64); err != nil {
		errs = append(errs, fmt.Errorf("sync max_parallel: %w", err))
	}
	if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("sync timezone: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
