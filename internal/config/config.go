// Package config loads settings from SYNCADS_* environment variables.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/and161185/syncads/internal/config/configs"
	"github.com/and161185/syncads/internal/repository/file"
)

// EnvPrefix prefixes every variable read by Load.
const EnvPrefix = "SYNCADS_"

// Config aggregates all sections. Nested structs are parsed with their
// envPrefix appended to EnvPrefix, e.g. SYNCADS_STORAGE_BACKEND.
type Config struct {
	Storage configs.Storage `envPrefix:"STORAGE_"`
	Log     configs.Logger  `envPrefix:"LOG_"`
	Delays  configs.Delays  `envPrefix:"DELAY_"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerations and ranges. Call it again after applying
// command-line overrides.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Storage.Scope {
	case "session", "full":
	default:
		return fmt.Errorf("config: unknown storage scope %q", c.Storage.Scope)
	}
	if c.Delays.TypingMax < c.Delays.TypingMin {
		return fmt.Errorf("config: typing max %s below min %s", c.Delays.TypingMax, c.Delays.TypingMin)
	}
	return nil
}

// StoragePath returns the configured path or the backend default inside the
// per-user config directory.
func (c Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	dir := file.DefaultDir()
	if c.Storage.Backend == "sqlite" {
		return filepath.Join(dir, "state.db")
	}
	return dir
}
