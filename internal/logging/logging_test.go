package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNewJSONUsesTsKey(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", false)
	l.Info("hello", "k", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Contains(t, rec, "ts")
	assert.NotContains(t, rec, "time")
	assert.Equal(t, "hello", rec["msg"])
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", false)
	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.True(t, strings.Contains(buf.String(), "kept"))
}

func TestConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", true)
	l.Debug("console line", "state", "IDLE")
	assert.Contains(t, buf.String(), "console line")
}

func TestComponentNilLogger(t *testing.T) {
	l := Component(nil, "fsm")
	require.NotNil(t, l)
	l.Info("nothing happens")
}
