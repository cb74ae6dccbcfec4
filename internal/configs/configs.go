/*
Package configs is responsible for loading and parsing the application's
configuration settings.

All settings come from environment variables, parsed into AppConfig via
struct tags and then validated. The only knobs the relay core exposes are the
per-circle history capacity and the profanity vocabulary overrides; everything
else configures the HTTP/WebSocket surface.
*/
package configs

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// AppConfig contains all configuration parameters required for the
// application to run.
type AppConfig struct {
	// General Server Settings
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"8080"`

	// Security Settings
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`

	// Relay Core Settings
	HistoryCapacity int      `env:"HISTORY_CAPACITY" envDefault:"50"`
	ProfanityAdd    []string `env:"PROFANITY_ADD" envDefault:"kill"`
	ProfanityRemove []string `env:"PROFANITY_REMOVE" envDefault:"hell"`
}

// LoadConfig reads the application configuration from environment variables
// and validates it. It returns a pointer to the AppConfig struct and any
// error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	if cfg.HistoryCapacity < 1 {
		return nil, fmt.Errorf("HISTORY_CAPACITY must be at least 1, got %d", cfg.HistoryCapacity)
	}

	origins := cfg.AllowedOrigins
	cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	return cfg, nil
}
