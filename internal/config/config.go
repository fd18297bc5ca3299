package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/nurlybekov/pomo/internal/models"
)

// Config holds process-wide settings. Values come from defaults, then the
// optional yaml file, then environment variables, in that order.
type Config struct {
	DBPath string `yaml:"db_path" env:"POMO_DB_PATH"`

	// Identity attached to sessions started from this machine.
	UserID   string `yaml:"user_id" env:"POMO_USER_ID"`
	UserName string `yaml:"user_name" env:"POMO_USER_NAME"`

	// Default planned minutes per session type.
	FocusMinutes      int `yaml:"focus_minutes" env:"POMO_FOCUS_MINUTES"`
	ShortBreakMinutes int `yaml:"short_break_minutes" env:"POMO_SHORT_BREAK_MINUTES"`
	LongBreakMinutes  int `yaml:"long_break_minutes" env:"POMO_LONG_BREAK_MINUTES"`

	// Retention sweep threshold in days.
	CleanupMaxAgeDays int `yaml:"cleanup_max_age_days" env:"POMO_CLEANUP_MAX_AGE_DAYS"`

	// How long aggregation reads may be served from cache, in seconds.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds" env:"POMO_CACHE_TTL_SECONDS"`
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{
		FocusMinutes:      25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		CleanupMaxAgeDays: 90,
		CacheTTLSeconds:   30,
	}

	if home, err := os.UserHomeDir(); err == nil {
		cfg.DBPath = filepath.Join(home, ".pomo", "pomo.db")
	} else {
		cfg.DBPath = "pomo.db"
	}

	cfg.UserID = os.Getenv("USER")
	if cfg.UserID == "" {
		cfg.UserID = "local"
	}
	cfg.UserName = cfg.UserID

	return cfg
}

// Path returns the config file location, ~/.pomo/config.yaml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pomo", "config.yaml"), nil
}

// Load assembles the effective configuration: defaults, overlaid with the
// yaml file when present, overlaid with environment variables.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if err := loadFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// loadFile overlays values from the yaml file at path. A missing file is
// not an error.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// DefaultMinutes returns the configured planned minutes for a session type.
// Custom sessions have no default and return 0.
func (c Config) DefaultMinutes(typ models.SessionType) int {
	switch typ {
	case models.TypeFocus:
		return c.FocusMinutes
	case models.TypeShortBreak:
		return c.ShortBreakMinutes
	case models.TypeLongBreak:
		return c.LongBreakMinutes
	}
	return 0
}
