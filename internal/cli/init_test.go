package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spesedesk/internal/config"
)

func TestSetupLoggerWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "spese.log")
	logger, closeFn, err := SetupLogger(&config.Config{LogLevel: "debug", LogFile: path})
	require.NoError(t, err)

	logger.Debug("hello", "k", "v")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "component=app")
}

func TestSetupLoggerRejectsBadLevel(t *testing.T) {
	_, _, err := SetupLogger(&config.Config{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestSetupLoggerWithoutFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger, closeFn, err := SetupLogger(&config.Config{LogLevel: "info"})
	require.NoError(t, err)
	logger.Info("dropped")
	assert.NoError(t, closeFn())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CURRENCY_SYMBOL=£\n"), 0o644))
	t.Setenv("CURRENCY_SYMBOL", "")
	os.Unsetenv("CURRENCY_SYMBOL")

	LoadEnvFile(path)
	assert.Equal(t, "£", os.Getenv("CURRENCY_SYMBOL"))

	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}
