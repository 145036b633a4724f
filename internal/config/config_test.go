package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"QCHECK_DB", "QCHECK_WORKERS", "QCHECK_SHEETS_CREDENTIALS",
		"QCHECK_MASTER_URL", "QCHECK_MASTER_TAB", "QCHECK_LOG_LEVEL", "QCHECK_LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_YAMLOverDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  dsn: postgres://qcheck@localhost/qcheck
sheets:
  master_url: https://docs.google.com/spreadsheets/d/abc/edit
  retry:
    initial_wait: 250ms
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://qcheck@localhost/qcheck", cfg.Database.DSN)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/edit", cfg.Sheets.MasterURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Sheets.Retry.InitialWait)
	assert.Equal(t, 5, cfg.Sheets.Retry.MaxAttempts, "unset fields keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	t.Setenv("QCHECK_LOG_LEVEL", "error")
	t.Setenv("QCHECK_WORKERS", "8")
	t.Setenv("QCHECK_MASTER_TAB", "Units")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 8, cfg.Extract.Workers)
	assert.Equal(t, "Units", cfg.Sheets.MasterTab)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [not, a, map]\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv("QCHECK_WORKERS", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"no workers", func(c *Config) { c.Extract.Workers = 0 }},
		{"no attempts", func(c *Config) { c.Sheets.Retry.MaxAttempts = 0 }},
		{"shrinking backoff", func(c *Config) { c.Sheets.Retry.Multiplier = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "qcheck", "config.yaml"), p)
}
