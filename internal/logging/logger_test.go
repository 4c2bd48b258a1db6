package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleking/supplier-api/internal/config"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()

	var entries []LogEntry

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var entry LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}

	return entries
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"invalid", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestNewLoggerOutputs(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, logger.sink.out)
	assert.False(t, logger.showCaller)

	logger, err = NewLogger(config.LoggingConfig{Level: "debug", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, logger.sink.out)
	assert.True(t, logger.showCaller)

	_, err = NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "file"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log file path is required")

	_, err = NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "syslog"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log output")
}

func TestNewLoggerFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "text", Output: "file", File: logFile})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "kept")
	assert.NotContains(t, string(content), "dropped")
}

func TestLoggerFieldsAreScopedToChild(t *testing.T) {
	var buf bytes.Buffer

	parent := New(&buf, "info", "json")
	child := parent.WithFields(map[string]any{"endpoint": "/api/suppliers", "status": 200})
	child.Info("handled")
	parent.Info("bare")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "/api/suppliers", entries[0].Fields["endpoint"])
	assert.Equal(t, float64(200), entries[0].Fields["status"])
	assert.Empty(t, entries[1].Fields)
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, "info", "json")
	assert.Same(t, logger, logger.WithError(nil))

	logger.WithError(assert.AnError).Info("with error")
	logger.ErrorWithErr("query failed", assert.AnError)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, assert.AnError.Error(), entries[0].Fields["error"])
	assert.Equal(t, "ERROR", entries[1].Level)
	assert.Equal(t, assert.AnError.Error(), entries[1].Error)
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, "warn", "json")
	logger.Debug("debug message")
	logger.Infof("info %d", 1)
	logger.Warnf("warn %s", "message")
	logger.Errorf("error %s", "message")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, "warn message", entries[0].Message)
	assert.Equal(t, "ERROR", entries[1].Level)
	assert.True(t, logger.Enabled(ErrorLevel))
	assert.False(t, logger.Enabled(InfoLevel))
}

func TestLoggerTextFormatSortsFields(t *testing.T) {
	var buf bytes.Buffer

	New(&buf, "info", "text").
		WithFields(map[string]any{"zeta": 1, "alpha": "a"}).
		Info("text message")

	line := buf.String()
	assert.Contains(t, line, "INFO text message {alpha=a zeta=1}")
}

func TestLoggerTextFormatWithCaller(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, "info", "text")
	logger.showCaller = true
	logger.Info("test message")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer

	previous := GetLogger()
	t.Cleanup(func() { SetGlobal(previous) })

	SetGlobal(New(&buf, "debug", "json"))
	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	ErrorWithErr("error", assert.AnError)
	WithField("k", "v").Info("field")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 5)
	assert.Equal(t, "DEBUG", entries[0].Level)
	assert.Equal(t, "v", entries[4].Fields["k"])
}

func TestGetLoggerWithoutGlobal(t *testing.T) {
	previous := GetLogger()
	t.Cleanup(func() { SetGlobal(previous) })

	SetGlobal(nil)
	assert.NotNil(t, GetLogger())
	assert.NotPanics(t, func() { Infof("nowhere") })
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, "info", "json").WithField("request_id", "abc")
	ctx := NewContext(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))

	got, ok := LoggerFrom(ctx)
	assert.True(t, ok)
	assert.Same(t, logger, got)

	_, ok = LoggerFrom(context.Background())
	assert.False(t, ok)
}

func TestTrackOperation(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, "debug", "json")
	require.NoError(t, logger.TrackOperation("migrate", func() error { return nil }))

	err := logger.TrackOperation("seed", func() error { return assert.AnError })
	assert.Equal(t, assert.AnError, err)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 4)
	assert.Equal(t, "migrate", entries[0].Fields["operation"])
	assert.Equal(t, "Operation completed", entries[1].Message)
	assert.NotEmpty(t, entries[1].Fields["duration"])
	assert.Equal(t, "ERROR", entries[3].Level)
	assert.Equal(t, "seed", entries[3].Fields["operation"])
}
