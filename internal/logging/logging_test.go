package logging

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

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "debug", mutate: func(c *Config) { c.Level = "debug" }},
		{name: "unknown level", mutate: func(c *Config) { c.Level = "chatty" }, wantErr: true},
		{name: "negative backups", mutate: func(c *Config) { c.MaxBackups = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuild_ConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = "warn"

	logger, err := build(cfg, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud", zap.Int("points", 42))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "42")
}

func TestBuild_FileIsJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.File = filepath.Join(t.TempDir(), "heartsketch.log")

	logger, err := build(cfg, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Named("interaction").Info("heart detected", zap.String("id", "abc"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "heart detected", entry["msg"])
	assert.Equal(t, "interaction", entry["logger"])
	assert.Equal(t, "abc", entry["id"])
	assert.Contains(t, buf.String(), "heart detected")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}
