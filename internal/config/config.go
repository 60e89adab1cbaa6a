// Package config loads application settings from environment variables,
// applying defaults. CLI flags may override individual values.
package config

import (
	"os"
	"path/filepath"
)

// Config aggregates application configuration values.
type Config struct {
	// DBPath is the sqlite database holding the persisted snapshot.
	DBPath string
	// Addr is the API server listen address.
	Addr    string
	Logging LoggingConfig
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string
	Format string // console|json
}

const (
	defaultAddr      = ":8080"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Load reads configuration from the environment.
func Load() Config {
	home, _ := os.UserHomeDir()
	defaultDB := filepath.Join(home, ".bazical", "bazical.db")

	return Config{
		DBPath: envOr("BAZICAL_DB", defaultDB),
		Addr:   envOr("BAZICAL_ADDR", defaultAddr),
		Logging: LoggingConfig{
			Level:  envOr("BAZICAL_LOG_LEVEL", defaultLogLevel),
			Format: envOr("BAZICAL_LOG_FORMAT", defaultLogFormat),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
