// Package config loads qcheck settings from defaults, an optional YAML file
// and QCHECK_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the full qcheck configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Extract  ExtractConfig  `yaml:"extract"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig selects the store.
type DatabaseConfig struct {
	// DSN is a SQLite path or a postgres:// URL. Empty means the default
	// database path.
	DSN string `yaml:"dsn"`
}

// ExtractConfig tunes file extraction.
type ExtractConfig struct {
	// Workers bounds how many files are extracted at once.
	Workers int `yaml:"workers"`
}

// SheetsConfig configures the Google Sheets integration.
type SheetsConfig struct {
	CredentialsFile string      `yaml:"credentials_file"`
	MasterURL       string      `yaml:"master_url"`
	MasterTab       string      `yaml:"master_tab"`
	Retry           RetryConfig `yaml:"retry"`
}

// RetryConfig configures backoff on quota errors.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Extract: ExtractConfig{
			Workers: 4,
		},
		Sheets: SheetsConfig{
			MasterTab: "Programming Foundations Descriptive",
			Retry: RetryConfig{
				MaxAttempts: 5,
				InitialWait: 1500 * time.Millisecond,
				MaxWait:     30 * time.Second,
				Multiplier:  2.0,
			},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultPath resolves the config file path:
// $XDG_CONFIG_HOME/qcheck/config.yaml, else ~/.config/qcheck/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "qcheck", "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from QCHECK_* environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("QCHECK_DB"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("QCHECK_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QCHECK_WORKERS: %w", err)
		}
		c.Extract.Workers = n
	}
	if v := os.Getenv("QCHECK_SHEETS_CREDENTIALS"); v != "" {
		c.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("QCHECK_MASTER_URL"); v != "" {
		c.Sheets.MasterURL = v
	}
	if v := os.Getenv("QCHECK_MASTER_TAB"); v != "" {
		c.Sheets.MasterTab = v
	}
	if v := os.Getenv("QCHECK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("QCHECK_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	if c.Extract.Workers < 1 {
		return fmt.Errorf("extract.workers must be at least 1, got %d", c.Extract.Workers)
	}
	if c.Sheets.Retry.MaxAttempts < 1 {
		return fmt.Errorf("sheets.retry.max_attempts must be at least 1, got %d", c.Sheets.Retry.MaxAttempts)
	}
	if c.Sheets.Retry.Multiplier < 1 {
		return fmt.Errorf("sheets.retry.multiplier must be at least 1, got %g", c.Sheets.Retry.Multiplier)
	}
	return nil
}
