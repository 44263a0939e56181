package iologger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/revatlas/revatlas/internal/iologger"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := iologger.New(&buf, config.LogConfig{Level: "info", Format: "text"})
	logger.Info("test message", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "key=value")
	assert.Contains(t, output, "level=INFO")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := iologger.New(&buf, config.LogConfig{Level: "info", Format: "json"})
	logger.Info("test message", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := iologger.New(&buf, config.LogConfig{Level: "warn", Format: "text"})
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		level slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"trace", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, v := range tests {
		assert.Equal(t, v.level, iologger.ParseLevel(v.input), v.input)
	}
}

func TestInit_File(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	dir := t.TempDir()
	cfg := config.LogConfig{Level: "info", Format: "json", Destination: "file"}
	require.NoError(t, iologger.Init(dir, cfg, false))

	slog.Info("first run")

	path := iologger.LogFile(dir)
	assert.Equal(t, filepath.Join(dir, "revatlas.log"), path)

	require.NoError(t, iologger.Init(dir, cfg, true))
	slog.Info("same run, config loaded")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "same run, config loaded")

	require.NoError(t, iologger.Init(dir, cfg, false))
	slog.Info("next run")

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "first run", "truncated")
	assert.Contains(t, string(data), "next run")
}

func TestInit_BadDir(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	dir := filepath.Join(t.TempDir(), "missing")
	cfg := config.LogConfig{Destination: "file"}
	err := iologger.Init(dir, cfg, true)
	assert.Error(t, err)
}
