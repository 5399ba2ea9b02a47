// Package config loads the assistant configuration from an optional YAML
// file with environment-variable overrides on top. Defaults keep a bare
// `taskyaar` invocation working against a local database; only the Matrix
// settings are genuinely required to run the frontend.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mjunaidk/taskyaar/common/environment"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/intent"
)

// Matrix holds the frontend connection settings.
type Matrix struct {
	Homeserver  string   `yaml:"homeserver"`
	UserID      string   `yaml:"user_id"`
	AccessToken string   `yaml:"access_token"`
	Rooms       []string `yaml:"rooms"`
}

// Config is the full assistant configuration.
type Config struct {
	// DatabasePath is the sqlite file holding tasks, history, and pending
	// confirmations.
	DatabasePath string `yaml:"database_path"`
	// DefaultLanguage is used when an utterance gives no language signal.
	DefaultLanguage string `yaml:"default_language"`
	// HistoryWindow bounds how many recent utterances reference resolution
	// scans.
	HistoryWindow int `yaml:"history_window"`
	// ConfirmTTL is how long a deletion prompt waits for a yes/no.
	ConfirmTTL time.Duration `yaml:"confirm_ttl"`
	// Categories extends the category vocabulary the matcher recognises in
	// filtered searches.
	Categories []string `yaml:"categories"`

	Matrix Matrix `yaml:"matrix"`
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		DatabasePath:    "./taskyaar.db",
		DefaultLanguage: string(intent.English),
		HistoryWindow:   20,
		ConfirmTTL:      5 * time.Minute,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DatabasePath = environment.StringOr("DATABASE_PATH", c.DatabasePath)
	c.DefaultLanguage = environment.StringOr("DEFAULT_LANGUAGE", c.DefaultLanguage)
	c.HistoryWindow = environment.IntOr("HISTORY_WINDOW", c.HistoryWindow)
	c.ConfirmTTL = environment.DurationOr("CONFIRM_TTL", c.ConfirmTTL)
	c.Categories = environment.StringSliceOr("TASK_CATEGORIES", c.Categories)

	c.Matrix.Homeserver = environment.StringOr("MATRIX_HOMESERVER", c.Matrix.Homeserver)
	c.Matrix.UserID = environment.StringOr("MATRIX_USER_ID", c.Matrix.UserID)
	c.Matrix.AccessToken = environment.StringOr("MATRIX_ACCESS_TOKEN", c.Matrix.AccessToken)
	c.Matrix.Rooms = environment.StringSliceOr("MATRIX_ROOMS", c.Matrix.Rooms)
}

// Validate rejects configurations the assistant cannot start with.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("config: database_path is required")
	}
	if !intent.Language(c.DefaultLanguage).Valid() {
		return fmt.Errorf("config: default_language %q is not supported", c.DefaultLanguage)
	}
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("config: history_window must be positive, got %d", c.HistoryWindow)
	}
	if c.ConfirmTTL <= 0 {
		return fmt.Errorf("config: confirm_ttl must be positive, got %s", c.ConfirmTTL)
	}

	switch {
	case c.Matrix.Homeserver == "":
		return fmt.Errorf("config: matrix.homeserver is required")
	case c.Matrix.UserID == "":
		return fmt.Errorf("config: matrix.user_id is required")
	case c.Matrix.AccessToken == "":
		return fmt.Errorf("config: matrix.access_token is required")
	case len(c.Matrix.Rooms) == 0:
		return fmt.Errorf("config: matrix.rooms is required")
	}
	return nil
}
