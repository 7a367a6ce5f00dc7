// Package config holds the validated runtime configuration of the ozcomps service.
//
// Configuration is layered: Default values, then an optional YAML file, then environment
// variables, then command-line flags applied by the cli package. Validate must be called
// once all layers have been applied.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/competitionkit/ozcomps/internal/extract"
	"github.com/competitionkit/ozcomps/internal/logger"
	"github.com/competitionkit/ozcomps/internal/scraper"
	yaml "gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv
const (
	EnvAddr        = "OZCOMPS_ADDR"
	EnvPort        = "PORT"
	EnvUpstreamURL = "OZCOMPS_UPSTREAM_URL"
	EnvBaseOrigin  = "OZCOMPS_BASE_ORIGIN"
	EnvUserAgent   = "OZCOMPS_USER_AGENT"
	EnvTimeout     = "OZCOMPS_TIMEOUT"
	EnvLogLevel    = "OZCOMPS_LOG_LEVEL"
)

// Config is the service configuration.
type Config struct {
	Addr            string        `yaml:"addr"`
	UpstreamURL     string        `yaml:"upstreamURL"`
	BaseOrigin      string        `yaml:"baseOrigin"`
	UserAgent       string        `yaml:"userAgent"`
	Timeout         time.Duration `yaml:"timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	LogLevel        string        `yaml:"logLevel"`
	Limit           LimitPolicy   `yaml:"limit"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		UpstreamURL:     scraper.CompetitionsURL,
		BaseOrigin:      extract.BaseOrigin,
		UserAgent:       scraper.UserAgent,
		Timeout:         scraper.Timeout,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		Limit:           DefaultLimitPolicy(),
	}
}

// Load builds a configuration from defaults, the YAML file at path (skipped when empty)
// and the process environment. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file keep their
// current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables onto c using lookup (normally os.LookupEnv).
// PORT is honored when OZCOMPS_ADDR is not set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	} else if v, ok := lookup(EnvPort); ok && v != "" {
		c.Addr = ":" + v
	}
	if v, ok := lookup(EnvUpstreamURL); ok && v != "" {
		c.UpstreamURL = v
	}
	if v, ok := lookup(EnvBaseOrigin); ok && v != "" {
		c.BaseOrigin = v
	}
	if v, ok := lookup(EnvUserAgent); ok && v != "" {
		c.UserAgent = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate reports every problem found in c.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if err := validateHTTPURL("upstream URL", c.UpstreamURL); err != nil {
		errs = append(errs, err)
	}
	if err := validateHTTPURL("base origin", c.BaseOrigin); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := c.Limit.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}
