package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		DataBackend:    BackendJSON,
		DataFile:       "expenses.json",
		SQLiteDBPath:   "./data/spese.db",
		LogLevel:       "info",
		LogFile:        "spese.log",
		CurrencySymbol: "$",
	}
}

func TestConfig_Validate(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notADir, nil, 0o644))

	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid json backend config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid sqlite backend config",
			mutate: func(c *Config) { c.DataBackend = BackendSQLite },
		},
		{
			name:   "existing data directory",
			mutate: func(c *Config) { c.DataDir = t.TempDir() },
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "memory" },
			wantErr:     true,
			errorString: "invalid data backend 'memory': must be one of [json sqlite]",
		},
		{
			name:        "blank data file",
			mutate:      func(c *Config) { c.DataFile = "  " },
			wantErr:     true,
			errorString: "data file name cannot be blank when using json backend",
		},
		{
			name:        "missing data directory",
			mutate:      func(c *Config) { c.DataDir = filepath.Join(t.TempDir(), "nope") },
			wantErr:     true,
			errorString: "is not accessible",
		},
		{
			name:        "data directory is a file",
			mutate:      func(c *Config) { c.DataDir = notADir },
			wantErr:     true,
			errorString: "is not a directory",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = BackendSQLite
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "blank currency symbol",
			mutate:      func(c *Config) { c.CurrencySymbol = "" },
			wantErr:     true,
			errorString: "currency symbol cannot be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "configuration validation failed")
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCombinesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.DataBackend = "bogus"
	cfg.LogLevel = "bogus"
	cfg.CurrencySymbol = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data backend")
	assert.Contains(t, err.Error(), "invalid log level")
	assert.Contains(t, err.Error(), "currency symbol")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATA_BACKEND", "DATA_DIR", "DATA_FILE", "SQLITE_DB_PATH", "LOG_LEVEL", "LOG_FILE", "CURRENCY_SYMBOL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	assert.Equal(t, BackendJSON, cfg.DataBackend)
	assert.Equal(t, "", cfg.DataDir)
	assert.Equal(t, "expenses.json", cfg.DataFile)
	assert.Equal(t, "./data/spese.db", cfg.SQLiteDBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "spese.log", cfg.LogFile)
	assert.Equal(t, "$", cfg.CurrencySymbol)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("SQLITE_DB_PATH", filepath.Join(dir, "x.db"))
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CURRENCY_SYMBOL", "€")

	cfg := Load()
	assert.Equal(t, BackendSQLite, cfg.DataBackend)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "x.db"), cfg.SQLiteDBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "€", cfg.CurrencySymbol)
}

func TestLoad_BlankDataFileIsKept(t *testing.T) {
	t.Setenv("DATA_FILE", "")
	cfg := Load()
	assert.Equal(t, "", cfg.DataFile)
	assert.Error(t, cfg.Validate())
}
