package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "marketing-ai-storage", cfg.Storage.Key)
	assert.Equal(t, "full", cfg.Storage.Scope)
	assert.Equal(t, 1500*time.Millisecond, cfg.Delays.Save)
	assert.Equal(t, time.Second, cfg.Delays.Edit)
	assert.Equal(t, 500*time.Millisecond, cfg.Delays.LoadMore)
	assert.Equal(t, 2500*time.Millisecond, cfg.Delays.TypingMax)
	assert.Equal(t, zapcore.WarnLevel, cfg.Log.ZapLevel())
	assert.Equal(t, "console", cfg.Log.Encoding())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SYNCADS_STORAGE_BACKEND", "sqlite")
	t.Setenv("SYNCADS_STORAGE_SCOPE", "session")
	t.Setenv("SYNCADS_LOG_LEVEL", "debug")
	t.Setenv("SYNCADS_LOG_FORMAT", "JSON")
	t.Setenv("SYNCADS_DELAY_SAVE", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "session", cfg.Storage.Scope)
	assert.Equal(t, zapcore.DebugLevel, cfg.Log.ZapLevel())
	assert.Equal(t, "json", cfg.Log.Encoding())
	assert.Zero(t, cfg.Delays.Save)
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]string{
		"SYNCADS_STORAGE_BACKEND": "postgres",
		"SYNCADS_STORAGE_SCOPE":   "everything",
		"SYNCADS_DELAY_EDIT":      "soon",
	}
	for k, v := range tests {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			_, err := Load()
			require.Error(t, err)
		})
	}

	t.Run("typing range", func(t *testing.T) {
		t.Setenv("SYNCADS_DELAY_TYPING_MIN", "3s")
		t.Setenv("SYNCADS_DELAY_TYPING_MAX", "1s")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestStoragePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := Config{}
	cfg.Storage.Backend = "file"
	assert.Equal(t, filepath.Join(dir, "syncads"), cfg.StoragePath())

	cfg.Storage.Backend = "sqlite"
	assert.Equal(t, filepath.Join(dir, "syncads", "state.db"), cfg.StoragePath())

	cfg.Storage.Path = "/tmp/x.db"
	assert.Equal(t, "/tmp/x.db", cfg.StoragePath())
}
