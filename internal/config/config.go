package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the catalyst client.
type Config struct {
	API     API     `yaml:"api"`
	Refresh Refresh `yaml:"refresh"`
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
}

// API configures the backend REST endpoint and client behaviour.
type API struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	PageLimit      int     `yaml:"page_limit"`
	RatePerSec     float64 `yaml:"rate_per_sec"`
	RateBurst      int     `yaml:"rate_burst"`
}

// Refresh controls the auto-refresh scheduler.
type Refresh struct {
	Auto     bool   `yaml:"auto"`
	Interval string `yaml:"interval"`
}

// Storage holds paths for client-local persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Logging configures the diagnostic logger.
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a Config populated with the built-in defaults. The client
// is expected to run with nothing but CATALYST_API_URL set.
func Default() *Config {
	return &Config{
		API: API{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 10,
			PageLimit:      20,
			RatePerSec:     5,
			RateBurst:      10,
		},
		Refresh: Refresh{
			Auto:     true,
			Interval: "30m",
		},
		Storage: Storage{
			DataDir: "data",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load builds the configuration in layers: defaults, then the YAML file at
// path (a missing file is not an error), then environment variable
// overrides. The result is validated before it is returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CATALYST_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("CATALYST_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("CATALYST_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("CATALYST_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CATALYST_REFRESH_INTERVAL"); v != "" {
		cfg.Refresh.Interval = v
	}
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required (set CATALYST_API_URL)")
	}
	if _, err := time.ParseDuration(c.Refresh.Interval); err != nil {
		return fmt.Errorf("invalid refresh.interval %q: %w", c.Refresh.Interval, err)
	}
	if c.API.PageLimit < 1 || c.API.PageLimit > 100 {
		return fmt.Errorf("api.page_limit must be in 1..100, got %d", c.API.PageLimit)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Typed accessors
// ---------------------------------------------------------------------------

// APITimeout returns the request timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the auto-refresh interval. The string form is
// validated at load time, so a parse failure here cannot happen.
func (c *Config) RefreshInterval() time.Duration {
	d, _ := time.ParseDuration(c.Refresh.Interval)
	return d
}

// DatabasePath returns the SQLite path, defaulting to catalyst.db under the
// data directory when unset.
func (c *Config) DatabasePath() string {
	if c.Storage.SQLitePath != "" {
		return c.Storage.SQLitePath
	}
	return c.Storage.DataDir + "/catalyst.db"
}
