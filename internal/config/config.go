// Package config loads shiftclock settings from the environment and an
// optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// DBPath is the SQLite database file; defaults to ~/.shiftclock/shiftclock.db.
	DBPath string `mapstructure:"SHIFTCLOCK_DB"`
	// UserID and OrganizationID identify the CLI actor when --user/--org are not given.
	UserID         string `mapstructure:"SHIFTCLOCK_USER"`
	OrganizationID string `mapstructure:"SHIFTCLOCK_ORG"`
	// Timezone is an IANA zone name ("Local" for the host zone) that
	// defines where a work day starts and ends.
	Timezone string `mapstructure:"SHIFTCLOCK_TIMEZONE"`
	// HTTPAddr is the listen address for `shiftclock serve`.
	HTTPAddr string `mapstructure:"SHIFTCLOCK_HTTP_ADDR"`
	// MaxSession bounds how long a session may stay open; 0 disables auto-close.
	MaxSession time.Duration `mapstructure:"SHIFTCLOCK_MAX_SESSION"`
	// SweepInterval is how often `serve` closes stale sessions; 0 disables the ticker.
	SweepInterval time.Duration `mapstructure:"SHIFTCLOCK_SWEEP_INTERVAL"`
	// AutoResumeOnClockOut closes an open break at clock-out instead of rejecting it.
	AutoResumeOnClockOut bool `mapstructure:"SHIFTCLOCK_AUTO_RESUME_ON_CLOCK_OUT"`
	// RateLimitPerMin caps API requests per user per minute; 0 disables limiting.
	RateLimitPerMin int `mapstructure:"SHIFTCLOCK_RATE_LIMIT_PER_MIN"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"SHIFTCLOCK_LOG_LEVEL"`
	// LogUseCases enables per-use-case log lines on stderr for CLI commands.
	LogUseCases bool `mapstructure:"SHIFTCLOCK_LOG_USE_CASES"`

	loc   *time.Location
	level slog.Level
}

// Load reads envFile (if present), then builds and validates Config from the
// environment. Env vars override the file. An empty envFile skips the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: reading %s: %w", envFile, err)
			}
		}
	}

	v.AutomaticEnv()

	v.SetDefault("SHIFTCLOCK_DB", "")
	v.SetDefault("SHIFTCLOCK_USER", "")
	v.SetDefault("SHIFTCLOCK_ORG", "")
	v.SetDefault("SHIFTCLOCK_TIMEZONE", "Local")
	v.SetDefault("SHIFTCLOCK_HTTP_ADDR", ":8080")
	v.SetDefault("SHIFTCLOCK_MAX_SESSION", "16h")
	v.SetDefault("SHIFTCLOCK_SWEEP_INTERVAL", "5m")
	v.SetDefault("SHIFTCLOCK_AUTO_RESUME_ON_CLOCK_OUT", false)
	v.SetDefault("SHIFTCLOCK_RATE_LIMIT_PER_MIN", 120)
	v.SetDefault("SHIFTCLOCK_LOG_LEVEL", "info")
	v.SetDefault("SHIFTCLOCK_LOG_USE_CASES", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".shiftclock", "shiftclock.db")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: SHIFTCLOCK_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.loc = loc

	if err := cfg.level.UnmarshalText([]byte(strings.TrimSpace(cfg.LogLevel))); err != nil {
		return nil, fmt.Errorf("config: SHIFTCLOCK_LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: SHIFTCLOCK_HTTP_ADDR must be set")
	}
	if cfg.MaxSession < 0 {
		return nil, errors.New("config: SHIFTCLOCK_MAX_SESSION must not be negative")
	}
	if cfg.SweepInterval < 0 {
		return nil, errors.New("config: SHIFTCLOCK_SWEEP_INTERVAL must not be negative")
	}
	if cfg.RateLimitPerMin < 0 {
		return nil, errors.New("config: SHIFTCLOCK_RATE_LIMIT_PER_MIN must not be negative")
	}

	return &cfg, nil
}

// Location returns the zone that defines the work day. UTC if unset.
func (c *Config) Location() *time.Location {
	if c == nil || c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// SlogLevel returns the parsed LogLevel.
func (c *Config) SlogLevel() slog.Level {
	if c == nil {
		return slog.LevelInfo
	}
	return c.level
}
