package infrastructure

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apucli/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.input), "level %q", tt.input)
	}
}

func TestCreateLoggerStdout(t *testing.T) {
	logger, err := createLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestCreateLoggerFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "app.log")

	logger, err := createLogger(config.LoggingConfig{
		Level:    "debug",
		Format:   "text",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("hello")
	assert.FileExists(t, path)
}
