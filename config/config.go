package config

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/samber/oops"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageBolt   = "bolt"
	StorageSQLite = "sqlite"
)

var (
	ErrMissingAPIKey        = errors.New("api key for the selected provider is not set")
	ErrMissingTelegramToken = errors.New("telegram api token is not set")
)

type Generation struct {
	Provider    string  `yaml:"provider" env:"ZENITH_PROVIDER" env-default:"gemini" validate:"oneof=gemini openai"`
	Temperature float32 `yaml:"temperature" env:"MODEL_TEMPERATURE" env-default:"0.8" validate:"gte=0,lte=2"`
	// RequestTimeout bounds one generation call. Zero waits indefinitely.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"ZENITH_REQUEST_TIMEOUT" env-default:"0s"`
}

type Gemini struct {
	APIKey      string `yaml:"api_key" env:"GEMINI_API_KEY"`
	TextModel   string `yaml:"text_model" env:"GEMINI_TEXT_MODEL" env-default:"gemini-3-flash-preview" validate:"required"`
	ImageModel  string `yaml:"image_model" env:"GEMINI_IMAGE_MODEL" env-default:"gemini-2.5-flash-image" validate:"required"`
	SpeechModel string `yaml:"speech_model" env:"GEMINI_SPEECH_MODEL" env-default:"gemini-2.5-flash-preview-tts" validate:"required"`
	Voice       string `yaml:"voice" env:"GEMINI_VOICE" env-default:"Kore" validate:"required"`
}

type OpenAI struct {
	OpenAIAPIKey       string `yaml:"api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL      string `yaml:"base_url" env:"OPENAI_BASE_URL"`
	TextModel          string `yaml:"text_model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini" validate:"required"`
	ImageModel         string `yaml:"image_model" env:"OPENAI_IMAGE_MODEL" env-default:"dall-e-3" validate:"required"`
	SpeechModel        string `yaml:"speech_model" env:"OPENAI_SPEECH_MODEL" env-default:"tts-1" validate:"required"`
	Voice              string `yaml:"voice" env:"OPENAI_VOICE" env-default:"alloy" validate:"required"`
	TranscriptionModel string `yaml:"transcription_model" env:"OPENAI_TRANSCRIPTION_MODEL" env-default:"whisper-1" validate:"required"`
	// MaxHistoryTokens trims the oldest history turns above this budget. Zero disables trimming.
	MaxHistoryTokens int `yaml:"max_history_tokens" env:"OPENAI_MAX_HISTORY_TOKENS" env-default:"0" validate:"gte=0"`
}

type Telegram struct {
	TelegramAPIToken  string  `yaml:"api_token" env:"TELEGRAM_APITOKEN"`
	AllowedTelegramID []int64 `yaml:"allowed_telegram_id" env:"ALLOWED_TELEGRAM_ID" env-separator:","`
	IsNotPublic       bool    `yaml:"is_not_public" env:"TELEGRAM_IS_NOT_PUBLIC" env-default:"false"`
}

type Redis struct {
	Endpoint string `yaml:"endpoint" env:"REDIS_ENDPOINT" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"ZENITH_STORAGE" env-default:"bolt" validate:"oneof=memory redis bolt sqlite"`
	// Path is the database file for the bolt and sqlite drivers.
	Path  string `yaml:"path" env:"ZENITH_STORAGE_PATH" env-default:"data/zenith.db"`
	Redis Redis  `yaml:"redis"`
}

type Media struct {
	FFmpegPath       string `yaml:"ffmpeg_path" env:"ZENITH_FFMPEG" env-default:"ffmpeg"`
	CameraFormat     string `yaml:"camera_format" env-default:"v4l2"`
	CameraDevice     string `yaml:"camera_device" env:"ZENITH_CAMERA" env-default:"/dev/video0"`
	MicrophoneFormat string `yaml:"microphone_format" env-default:"pulse"`
	MicrophoneDevice string `yaml:"microphone_device" env:"ZENITH_MICROPHONE" env-default:"default"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	// File receives JSON records in addition to the console when set.
	File  string `yaml:"file" env:"LOG_FILE"`

	// TelegramChatID receives error records through the bot token when set.
	TelegramChatID string `yaml:"telegram_chat_id" env:"LOG_TELEGRAM_CHAT_ID"`
}

type Config struct {
	Generation Generation `yaml:"generation"`
	Gemini     Gemini     `yaml:"gemini"`
	OpenAI     OpenAI     `yaml:"openai"`
	Telegram   Telegram   `yaml:"telegram"`
	Storage    Storage    `yaml:"storage"`
	Media      Media      `yaml:"media"`
	Log        Log        `yaml:"log"`
}

// LoadConfig reads cfgPath (when set) and then applies environment overrides.
func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if cfgPath != "" {
		if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
			return nil, oops.In("config").Errorf("failed to read config %s: %w", cfgPath, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, oops.In("config").Errorf("failed to read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return oops.In("config").Errorf("failed to validate config: %w", err)
	}
	switch c.Generation.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return oops.In("config").With("provider", c.Generation.Provider).Wrap(ErrMissingAPIKey)
		}
	case ProviderOpenAI:
		if c.OpenAI.OpenAIAPIKey == "" {
			return oops.In("config").With("provider", c.Generation.Provider).Wrap(ErrMissingAPIKey)
		}
	}
	return nil
}
