// Package config resolves tvault settings from its YAML file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/UniBinary/TextVault/internal/fsutil"
)

// Config holds the settings every command starts from. All fields are
// optional in the file; Load fills in the defaults.
type Config struct {
	BaseDir  string `yaml:"base_dir"`  // directory holding vaults.json and the default vault
	Editor   string `yaml:"editor"`    // editor command, falls back to $EDITOR / $VISUAL / vi
	LogLevel string `yaml:"log_level"` // zap level name, default warn
}

// Validate checks loaded values before any command runs with them.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// Path returns the config file location. TVAULT_CONFIG overrides the
// XDG default, which is <config home>/tvault/config.yaml.
func Path() string {
	if explicit := os.Getenv("TVAULT_CONFIG"); explicit != "" {
		return explicit
	}
	return filepath.Join(xdg.ConfigHome, "tvault", "config.yaml")
}

// DefaultBaseDir is where vault state lives when nothing else is configured.
func DefaultBaseDir() string {
	return filepath.Join(xdg.DataHome, "tvault")
}

// Load reads the config file when present, expands environment references
// in it, applies overrides and defaults, and validates the result. The base
// directory resolves in order: TVAULT_DIR, the file's base_dir, the XDG
// data directory.
func Load() (*Config, error) {
	xdg.Reload()

	cfg := &Config{}
	data, err := os.ReadFile(Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No config file is fine, defaults apply.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", Path(), err)
		}
	}

	if explicit := os.Getenv("TVAULT_DIR"); explicit != "" {
		cfg.BaseDir = explicit
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = DefaultBaseDir()
	}
	base, err := fsutil.ExpandHome(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory: %w", err)
	}
	cfg.BaseDir = base

	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
