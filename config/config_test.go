package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "gemini:\n  api_key: test-key\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ProviderGemini, cfg.Generation.Provider)
	require.InDelta(t, 0.8, cfg.Generation.Temperature, 1e-6)
	require.Zero(t, cfg.Generation.RequestTimeout)
	require.Equal(t, "gemini-3-flash-preview", cfg.Gemini.TextModel)
	require.Equal(t, "gemini-2.5-flash-image", cfg.Gemini.ImageModel)
	require.Equal(t, "Kore", cfg.Gemini.Voice)
	require.Equal(t, StorageBolt, cfg.Storage.Driver)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
generation:
  provider: gemini
  request_timeout: 30s
gemini:
  api_key: file-key
storage:
  driver: redis
`)
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("ALLOWED_TELEGRAM_ID", "1,2,3")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.Gemini.APIKey)
	require.Equal(t, []int64{1, 2, 3}, cfg.Telegram.AllowedTelegramID)
	require.Equal(t, 30*time.Second, cfg.Generation.RequestTimeout)
	require.Equal(t, StorageRedis, cfg.Storage.Driver)
}

func TestLoadConfig_MissingProviderKey(t *testing.T) {
	path := writeConfig(t, "generation:\n  provider: openai\n")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := LoadConfig(path)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "gemini:\n  api_key: k\nstorage:\n  driver: floppy\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
}
