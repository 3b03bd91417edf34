// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"` // development, staging, production

	// Festival override store
	StoreEnabled bool   `env:"STORE_ENABLED" envDefault:"true"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/shengxiao.db"`

	// Authentication for write endpoints
	APIKey string `env:"API_KEY"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`  // debug, info, warn, error
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // json, text

	// Festival sources
	SourceTimeout      time.Duration `env:"SOURCE_TIMEOUT" envDefault:"5s"`
	LiveSourcesEnabled bool          `env:"LIVE_SOURCES_ENABLED" envDefault:"true"`
	SourceURLs         []string      `env:"FESTIVAL_SOURCE_URLS" envSeparator:","`
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Missing .env is fine; production sets variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.StoreEnabled && c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required when STORE_ENABLED is true"))
	}

	// API key is required in production
	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if c.SourceTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SOURCE_TIMEOUT must be positive, got %s", c.SourceTimeout))
	}

	for _, u := range c.SourceURLs {
		if !strings.Contains(u, "{year}") {
			errs = append(errs, fmt.Errorf("FESTIVAL_SOURCE_URLS entry %q must contain {year}", u))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
