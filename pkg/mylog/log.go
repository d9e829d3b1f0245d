package mylog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"
	slogtelegram "github.com/samber/slog-telegram/v2"
)

// TelegramAttr marks a record for delivery to the admin chat regardless of
// its level.
const TelegramAttr = "telegram"

type Options struct {
	Level string
	// File receives JSON records when set.
	File  string

	// TelegramToken and TelegramChatID enable error delivery to a chat.
	TelegramToken  string
	TelegramChatID string
}

// Preinit installs a console logger usable before the configuration is read.
func Preinit() {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	})))
}

// Init replaces the default logger with a console handler and the optional
// JSON file and Telegram sinks. The returned closer releases the file.
func Init(opts Options) (io.Closer, error) {
	logLevel, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	handlers := []slog.Handler{
		console.NewHandler(os.Stderr, &console.HandlerOptions{
			AddSource: logLevel == slog.LevelDebug,
			Level:     logLevel,
		}),
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err = os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: logLevel}))
		closer = f
	}

	if opts.TelegramToken != "" && opts.TelegramChatID != "" {
		handlers = append(
			handlers, slogmulti.Router().Add(
				slogtelegram.Option{
					Level:     slog.LevelDebug,
					Token:     opts.TelegramToken,
					Username:  opts.TelegramChatID,
					AddSource: true,
				}.NewTelegramHandler(),
				routeToTelegram,
			).Handler(),
		)
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))
	return closer, nil
}

func routeToTelegram(_ context.Context, r slog.Record) bool {
	if r.Level >= slog.LevelError {
		return true
	}
	marked := false
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == TelegramAttr {
			marked = true
			return false
		}
		return true
	})
	return marked
}

func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
