package mylog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestInit_WritesJSONFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	path := filepath.Join(t.TempDir(), "logs", "zenith.log")
	closer, err := Init(Options{Level: "info", File: path})
	require.NoError(t, err)

	slog.Info("chat created", "chat_id", "abc")
	slog.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"chat created"`)
	require.Contains(t, string(data), `"chat_id":"abc"`)
	require.NotContains(t, string(data), "hidden")
}

func TestRouteToTelegram(t *testing.T) {
	ctx := context.Background()
	require.True(t, routeToTelegram(ctx, slog.NewRecord(time.Now(), slog.LevelError, "send failed", 0)))

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "bot started", 0)
	require.False(t, routeToTelegram(ctx, record))
	record.AddAttrs(slog.Bool(TelegramAttr, true))
	require.True(t, routeToTelegram(ctx, record))
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	_, err := Init(Options{Level: "loud"})
	require.Error(t, err)
}
