package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iamvkosarev/zenith-ai/config"
	"github.com/iamvkosarev/zenith-ai/internal/app"
	"github.com/iamvkosarev/zenith-ai/pkg/mylog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	mylog.Preinit()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "zenith",
		Short:         "Zenith AI workstation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config")

	run := func(runner func(context.Context, *config.Config) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				slog.Error("config load failed", "error", err)
				return err
			}
			closer, err := mylog.Init(
				mylog.Options{
					Level:          cfg.Log.Level,
					File:           cfg.Log.File,
					TelegramToken:  cfg.Telegram.TelegramAPIToken,
					TelegramChatID: cfg.Log.TelegramChatID,
				},
			)
			if err != nil {
				slog.Error("logging init failed", "error", err)
				return err
			}
			defer closer.Close()

			if err = runner(cmd.Context(), cfg); err != nil {
				slog.Error("zenith stopped", "command", cmd.Name(), "error", err)
				return err
			}
			return nil
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "bot",
			Short: "Serve the Telegram bot",
			RunE:  run(interruptible(app.RunBot)),
		},
		&cobra.Command{
			Use:   "chat",
			Short: "Chat in the terminal",
			RunE:  run(app.RunChat),
		},
	)
	return root
}

// interruptible cancels the run on Ctrl+C. The terminal front end handles
// Ctrl+C itself.
func interruptible(runner func(context.Context, *config.Config) error) func(context.Context, *config.Config) error {
	return func(ctx context.Context, cfg *config.Config) error {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return runner(ctx, cfg)
	}
}
