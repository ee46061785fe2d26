package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	Initialize()

	// Logger functions must not panic
	t.Run("Info", func(t *testing.T) {
		Info("Test info message", "component", "test")
	})

	t.Run("Warn", func(t *testing.T) {
		Warn("Test warning message", "component", "test")
	})

	t.Run("Error", func(t *testing.T) {
		Error("Test error message", "error", "sample error")
	})

	t.Run("Debug", func(t *testing.T) {
		Debug("Test debug message", "debug", true)
	})
}

func TestLoggerInitialization(t *testing.T) {
	l := Get()
	require.NotNil(t, l)
	assert.Same(t, l, Get())
	assert.NotNil(t, With("service", "test"))
}

func TestSinkSatisfiedBySlog(t *testing.T) {
	var _ Sink = slog.Default()
	var _ Sink = Get()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestConfigure(t *testing.T) {
	prev := Get()
	defer SetLogger(prev)

	var out bytes.Buffer
	Configure(&out, slog.LevelWarn)

	Info("hidden")
	Warn("shown", "key", "value")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"msg":"shown"`)
	assert.Contains(t, out.String(), `"key":"value"`)
}

func TestCapture(t *testing.T) {
	l, buf := NewCapture(2, slog.LevelInfo)

	l.Debug("dropped")
	l.Info("first", "n", 1)
	l.With("scope", "zone").Warn("second")
	l.Error("third")

	// Capacity 2: oldest entry is overwritten
	entries := buf.GetAll()
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Message)
	assert.Equal(t, "scope=zone", entries[0].Attrs)
	assert.Equal(t, "third", entries[1].Message)
	assert.Equal(t, 1, buf.CountLevel(slog.LevelWarn))
	assert.Equal(t, "WRN second scope=zone", entries[0].String())

	buf.Clear()
	assert.Equal(t, 0, buf.Count())
}

func TestFormatLevel(t *testing.T) {
	assert.Equal(t, "DBG", FormatLevel(slog.LevelDebug))
	assert.Equal(t, "INF", FormatLevel(slog.LevelInfo))
	assert.Equal(t, "WRN", FormatLevel(slog.LevelWarn))
	assert.Equal(t, "ERR", FormatLevel(slog.LevelError))
	assert.Equal(t, "???", FormatLevel(slog.Level(42)))
}
