package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/zenith-ai/config"
	"github.com/iamvkosarev/zenith-ai/internal/audio"
	"github.com/iamvkosarev/zenith-ai/internal/cli"
	"github.com/iamvkosarev/zenith-ai/internal/client/gemini"
	"github.com/iamvkosarev/zenith-ai/internal/client/openai"
	"github.com/iamvkosarev/zenith-ai/internal/media"
	"github.com/iamvkosarev/zenith-ai/internal/storage"
	"github.com/iamvkosarev/zenith-ai/internal/storage/bolt"
	in_memory "github.com/iamvkosarev/zenith-ai/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/zenith-ai/internal/storage/key-value"
	"github.com/iamvkosarev/zenith-ai/internal/storage/sqlite"
	"github.com/iamvkosarev/zenith-ai/internal/usecase"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

const localNamespace = "local"

// backend is whatever client the configured provider resolves to.
type backend interface {
	usecase.Generator
	usecase.Synthesizer
}

// kvStore closes the underlying database when the injector shuts down.
type kvStore struct {
	storage.KV
	close func() error
}

var _ do.Shutdownable = (*kvStore)(nil)

func (k *kvStore) Shutdown() error {
	if k.close == nil {
		return nil
	}
	return k.close()
}

// NewInjector registers the shared services: storage, generation backend and
// generation settings.
func NewInjector(ctx context.Context, cfg *config.Config) *do.Injector {
	di := do.New()
	do.ProvideValue(di, ctx)
	do.ProvideValue(di, cfg)
	do.Provide(di, newKVStore)
	do.Provide(di, newBackend)
	do.Provide(di, newGenerationConfig)
	return di
}

func newKVStore(di *do.Injector) (*kvStore, error) {
	ctx := do.MustInvoke[context.Context](di)
	cfg := do.MustInvoke[*config.Config](di)

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return &kvStore{KV: in_memory.NewKVStorage()}, nil
	case config.StorageRedis:
		rdb := redis.NewClient(
			&redis.Options{
				Addr:     cfg.Storage.Redis.Endpoint,
				Password: cfg.Storage.Redis.Password,
				DB:       cfg.Storage.Redis.DB,
			},
		)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return &kvStore{KV: key_value.NewKVStorage(rdb), close: rdb.Close}, nil
	case config.StorageSQLite:
		kv, err := sqlite.NewKVStorage(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		return &kvStore{KV: kv, close: kv.Close}, nil
	default:
		kv, err := bolt.NewKVStorage(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		return &kvStore{KV: kv, close: kv.Close}, nil
	}
}

func newBackend(di *do.Injector) (backend, error) {
	ctx := do.MustInvoke[context.Context](di)
	cfg := do.MustInvoke[*config.Config](di)

	if cfg.Generation.Provider == config.ProviderOpenAI {
		client, err := openai.NewClient(cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	client, err := gemini.NewClient(ctx, cfg.Gemini)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newGenerationConfig(di *do.Injector) (usecase.GenerationConfig, error) {
	cfg := do.MustInvoke[*config.Config](di)

	generationConfig := usecase.GenerationConfig{
		TextModel:      cfg.Gemini.TextModel,
		ImageModel:     cfg.Gemini.ImageModel,
		Temperature:    cfg.Generation.Temperature,
		RequestTimeout: cfg.Generation.RequestTimeout,
	}
	if cfg.Generation.Provider == config.ProviderOpenAI {
		generationConfig.TextModel = cfg.OpenAI.TextModel
		generationConfig.ImageModel = cfg.OpenAI.ImageModel
	}
	return generationConfig, nil
}

func newWorkspaceDeps(di *do.Injector) (usecase.WorkspaceUsecaseDeps, error) {
	kv, err := do.Invoke[*kvStore](di)
	if err != nil {
		return usecase.WorkspaceUsecaseDeps{}, fmt.Errorf("failed to open storage: %w", err)
	}
	client, err := do.Invoke[backend](di)
	if err != nil {
		return usecase.WorkspaceUsecaseDeps{}, fmt.Errorf("failed to create generation client: %w", err)
	}
	return usecase.WorkspaceUsecaseDeps{
		KV:          kv,
		Generator:   client,
		Synthesizer: client,
	}, nil
}

// RunBot serves the Telegram front end until ctx is done.
func RunBot(ctx context.Context, cfg *config.Config) error {
	if cfg.Telegram.TelegramAPIToken == "" {
		return config.ErrMissingTelegramToken
	}
	di := NewInjector(ctx, cfg)
	defer shutdown(di)

	bot, err := api.NewBotAPI(cfg.Telegram.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("failed to create new bot: %w", err)
	}
	slog.Info("authorized on telegram", "account", bot.Self.UserName)

	workspaceDeps, err := newWorkspaceDeps(di)
	if err != nil {
		return err
	}
	workspaceDeps.NewOutput = usecase.NewTelegramSpeechOutput(bot)

	telegramUsecase, err := usecase.NewTelegramUsecase(
		cfg.Telegram, usecase.TelegramUsecaseDeps{
			Bot:        bot,
			Workspaces: usecase.NewWorkspaceUsecase(workspaceDeps, do.MustInvoke[usecase.GenerationConfig](di)),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create telegram usecase: %w", err)
	}

	slog.Info("bot started", "provider", cfg.Generation.Provider, "storage", cfg.Storage.Driver)
	return telegramUsecase.Run(ctx)
}

// RunChat runs the terminal front end over the local workspace.
func RunChat(ctx context.Context, cfg *config.Config) error {
	di := NewInjector(ctx, cfg)
	defer shutdown(di)

	workspaceDeps, err := newWorkspaceDeps(di)
	if err != nil {
		return err
	}
	workspace, err := usecase.NewWorkspace(
		ctx, workspaceDeps, do.MustInvoke[usecase.GenerationConfig](di), localNamespace, audio.NewPlayer(),
	)
	if err != nil {
		return err
	}

	dataDir := filepath.Dir(cfg.Storage.Path)
	if err = os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	historyFile := filepath.Join(dataDir, "chat_history")
	line := cli.NewLiner(historyFile)
	defer cli.CloseLiner(line, historyFile)

	terminal := cli.NewTerminal(
		cli.TerminalDeps{
			Workspace:  workspace,
			Camera:     media.NewCamera(media.NewFFmpegCamera(cfg.Media)),
			Microphone: media.NewFFmpegMicrophone(cfg.Media),
			Reader:     line,
			ImageDir:   filepath.Join(dataDir, "images"),
		},
	)
	return terminal.Run(ctx)
}

func shutdown(di *do.Injector) {
	if err := di.Shutdown(); err != nil {
		slog.Error("failed to shutdown services", "error", err)
	}
}
