package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNew_FileIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "soundfolio.log")

	log, err := New(Config{Level: "info", File: path, MaxSizeMB: 1})
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("catalog loaded", zap.Int("tracks", 3))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug is below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "catalog loaded", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.InDelta(t, 3, entry["tracks"], 0)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Console: &buf})
	require.NoError(t, err)

	log.Warn("storage fallback", zap.String("bucket", "songlist1"))
	_ = log.Sync()

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "storage fallback")
	assert.Contains(t, out, "songlist1")
}

func TestNew_NoOutputs(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Info("dropped")
}
