package config

import (
	"fmt"
	"os"
	"strings"

	"spesedesk/internal/log"
)

type Config struct {
	// Storage
	DataBackend  string
	DataDir      string
	DataFile     string
	SQLiteDBPath string

	// Logging
	LogLevel string
	LogFile  string

	// Display
	CurrencySymbol string
}

// Backend names accepted in DATA_BACKEND.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("DATA_BACKEND", BackendJSON),
		DataDir:      getEnv("DATA_DIR", ""),
		DataFile:     getEnvRaw("DATA_FILE", "expenses.json"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spese.db"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", "spese.log"),

		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "$"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{BackendJSON, BackendSQLite}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendJSON:
		if strings.TrimSpace(c.DataFile) == "" {
			errors = append(errors, "data file name cannot be blank when using json backend")
		}
		if c.DataDir != "" {
			if info, err := os.Stat(c.DataDir); err != nil {
				errors = append(errors, fmt.Sprintf("data directory '%s' is not accessible: %v", c.DataDir, err))
			} else if !info.IsDir() {
				errors = append(errors, fmt.Sprintf("data directory '%s' is not a directory", c.DataDir))
			}
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if strings.TrimSpace(c.CurrencySymbol) == "" {
		errors = append(errors, "currency symbol cannot be blank")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRaw distinguishes an unset variable from one explicitly set to a
// blank value, so a blank filename reaches validation.
func getEnvRaw(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
