package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, HumanFormat, slog.LevelInfo)

	logger.Info("file applied", "path", "src/Foo.java", "refs", 2)

	out := buf.String()
	assert.Contains(t, out, "[info] file applied")
	assert.Contains(t, out, " | path=src/Foo.java refs=2")
	assert.Equal(t, byte('\n'), out[len(out)-1])
}

func TestLineHandler_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, HumanFormat, slog.LevelWarn)

	logger.Info("hidden")
	logger.Debug("hidden too")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "[warn] shown")
}

func TestLineHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, HumanFormat, slog.LevelDebug).With("tx", "abc").WithGroup("scan")

	logger.Debug("walked", "files", 3, "note", "two words")

	out := buf.String()
	assert.Contains(t, out, "tx=abc")
	assert.Contains(t, out, "scan.files=3")
	assert.Contains(t, out, `scan.note="two words"`)
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, JSONFormat, slog.LevelInfo)

	logger.Info("committed", "files", 2)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "committed", decoded["msg"])
	assert.EqualValues(t, 2, decoded["files"])
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, LevelFromString(in), in)
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	level, ok := LevelFromVerbosity(0, false)
	assert.False(t, ok)
	assert.Equal(t, slog.LevelWarn, level)

	level, ok = LevelFromVerbosity(1, false)
	assert.True(t, ok)
	assert.Equal(t, slog.LevelInfo, level)

	level, ok = LevelFromVerbosity(3, false)
	assert.True(t, ok)
	assert.Equal(t, slog.LevelDebug, level)

	level, ok = LevelFromVerbosity(2, true)
	assert.True(t, ok)
	assert.Equal(t, levelOff, level)
}
