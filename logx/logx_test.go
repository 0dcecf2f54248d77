package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := New()
	l.SetOutput(buf)
	l.SetColored(false)
	l.SetShowCaller(false)
	return l
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", TraceLevel},
		{"DEBUG", DebugLevel},
		{"Info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"off", OffLevel},
		{" info ", InfoLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetLevel(WarnLevel)

	l.Debug("hidden")
	l.Info("also hidden")
	l.Warn("shown")
	l.Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLoggerOffLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetLevel(OffLevel)

	l.Error("silenced")
	assert.Empty(t, buf.String())
}

func TestLoggerFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Info("count is %d", 42)
	assert.Contains(t, buf.String(), "count is 42")
	assert.Contains(t, buf.String(), "[INFO]")
}

func TestLoggerPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetPrefix("webhook")

	l.Info("ready")
	assert.Contains(t, buf.String(), "webhook")
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetFormat(FormatJSON)

	l.Info("structured %s", "output")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "structured output", entry["message"])
	assert.Contains(t, entry, "timestamp")
}

func TestLevelSprint(t *testing.T) {
	// Uncolored output is the plain level string
	assert.Equal(t, "ERROR", ErrorLevel.Sprint(false))
	assert.Contains(t, ErrorLevel.Sprint(true), "ERROR")
}
