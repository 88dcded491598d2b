package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{name: "production uses json", environment: "production", wantJSON: true},
		{name: "development uses pretty", environment: "development", wantJSON: false},
		{name: "staging uses pretty", environment: "staging", wantJSON: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf})
			log.Info("widget resolved")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"widget resolved"`)
			} else {
				assert.Contains(t, buf.String(), "widget resolved")
				assert.Contains(t, buf.String(), "INF")
			}
		})
	}
}

func TestNew_ExplicitFormatWins(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Environment: "development", Writer: &buf})
	log.Info("test")

	assert.Contains(t, buf.String(), `"msg":"test"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestPrettyHandler_AttributesAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))

	log.With("widget_id", "w1").WithGroup("track").Info("queued", "kind", "view")

	line := buf.String()
	assert.Contains(t, line, "widget_id=w1")
	assert.Contains(t, line, "track.kind=view")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestPrettyHandler_QuotesStringsWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))

	log.Info("msg", "reason", "database is locked")

	assert.Contains(t, buf.String(), `reason="database is locked"`)
}

func TestComponent_PrettyPrefix(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelDebug, Format: "pretty", Writer: &buf})

	log.Component("resolver").Info("widget resolved", "widget_id", "w1")

	line := buf.String()
	assert.Contains(t, line, "[resolver]")
	assert.Contains(t, line, "widget_id=w1")
	assert.NotContains(t, line, "component=")
}

func TestComponent_JSONField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelDebug, Format: "json", Writer: &buf})

	log.Component("tasks").Warn("task failed", "error", errors.New("database is locked"))

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"component":"tasks"`)
	assert.Contains(t, out, `"error":"database is locked"`)
}

func TestPrettyHandler_QuotesErrors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))

	log.Error("fetch failed", "error", errors.New("connection refused"))

	assert.Contains(t, buf.String(), `error="connection refused"`)
	assert.Contains(t, buf.String(), "ERR")
}
