package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger(LevelInfo)
	if logger.sink.level != LevelInfo {
		t.Errorf("expected level %s, got %s", LevelInfo, logger.sink.level)
	}
	if logger.sink.format != FormatJSON {
		t.Errorf("expected json format, got %s", logger.sink.format)
	}
}

func TestLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelDebug)
	logger.SetOutput(&buf)

	logger.Debug("event skipped", map[string]any{"reason": "bad_country"})

	output := buf.String()
	assert.Contains(t, output, `"level":"debug"`)
	assert.Contains(t, output, `"message":"event skipped"`)
	assert.Contains(t, output, `"reason":"bad_country"`)
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level   Level
		logFn   func(l *Logger)
		written bool
	}{
		{LevelInfo, func(l *Logger) { l.Debug("x") }, false},
		{LevelInfo, func(l *Logger) { l.Info("x") }, true},
		{LevelWarn, func(l *Logger) { l.Info("x") }, false},
		{LevelWarn, func(l *Logger) { l.Warn("x") }, true},
		{LevelError, func(l *Logger) { l.Warn("x") }, false},
		{LevelError, func(l *Logger) { l.Error("x") }, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := NewLogger(tt.level)
		logger.SetOutput(&buf)
		tt.logFn(logger)
		assert.Equal(t, tt.written, buf.Len() > 0, "level %s", tt.level)
	}
}

func TestLogger_Enabled(t *testing.T) {
	logger := NewLogger(LevelWarn)
	assert.False(t, logger.Enabled(LevelDebug))
	assert.False(t, logger.Enabled(LevelInfo))
	assert.True(t, logger.Enabled(LevelWarn))
	assert.True(t, logger.Enabled(LevelError))
}

func TestLogger_WithFieldsSharesSink(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(LevelInfo)
	base.SetOutput(&buf)

	child := base.WithFields(map[string]any{"session": "abc"})
	base.SetLevel(LevelError)
	child.Info("dropped")
	assert.Zero(t, buf.Len(), "child should follow parent level")

	child.Error("kept")
	var entry LogEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "abc", entry.Fields["session"])
	assert.Equal(t, "kept", entry.Message)
}

func TestLogger_WithFieldsDoesNotLeakToParent(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(LevelInfo)
	base.SetOutput(&buf)

	_ = base.WithFields(map[string]any{"dir": "/tmp"})
	base.Info("parent")
	assert.NotContains(t, buf.String(), "dir")
}

func TestLogger_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo)
	logger.SetOutput(&buf)

	logger.ErrorErr("watch failed", errors.New("permission denied"), map[string]any{"dir": "debriefings"})

	var entry LogEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, LevelError, entry.Level)
	assert.Equal(t, "permission denied", entry.Fields["error"])
	assert.Equal(t, "debriefings", entry.Fields["dir"])
}

func TestLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo)
	logger.SetOutput(&buf)
	logger.Info("plain")
	assert.NotContains(t, buf.String(), "fields")
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo)
	logger.SetOutput(&buf)
	logger.SetFormat(FormatText)

	logger.Warn("negative alive count", map[string]any{"unit": "T-72B", "side": "Russia"})

	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "WARN  negative alive count side=Russia unit=T-72B")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("nothing")
	assert.False(t, logger.Enabled(LevelWarn))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		"warn":    LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("TEXT")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestGlobal(t *testing.T) {
	prev := Global()
	t.Cleanup(func() { SetGlobal(prev) })

	var buf bytes.Buffer
	testLogger := NewLogger(LevelDebug)
	testLogger.SetOutput(&buf)
	SetGlobal(testLogger)

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	ErrorErr("ee", errors.New("boom"))
	WithFields(map[string]any{"k": "v"}).Info("f")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[4], `"error":"boom"`)
	assert.Contains(t, lines[5], `"k":"v"`)
}
