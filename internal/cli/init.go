// Package cli provides the start-up steps shared by the spese commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"spesedesk/internal/config"
	"spesedesk/internal/log"
)

// LoadEnvFile loads the .env file for local use.
// A missing file is not an error.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it. Invalid configuration ends the process.
func LoadAndValidateConfig(stderr io.Writer) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		os.Exit(1)
	}
	return cfg
}

// SetupLogger opens cfg.LogFile for appending and installs a logger writing
// to it as the slog default. The terminal stays free for the form. The
// returned function closes the file.
func SetupLogger(cfg *config.Config) (*log.Logger, func() error, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	out := io.Writer(io.Discard)
	closeFn := func() error { return nil }
	if cfg.LogFile != "" {
		if dir := filepath.Dir(cfg.LogFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	logger := log.New(log.Config{Level: level, Component: log.ComponentApp, Output: out})
	log.SetDefault(logger)
	return logger, closeFn, nil
}
