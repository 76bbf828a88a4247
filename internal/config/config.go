package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	ListenAddr string `mapstructure:"LISTEN_ADDR"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	BadgerDBPath  string `mapstructure:"BADGERDB_PATH"`
	// StorageURL is the storage-service URL (a Postgres DSN).
	StorageURL    string `mapstructure:"STORAGE_URL"`
	// StorageKey is the storage-service privileged key.
	StorageKey    string `mapstructure:"STORAGE_KEY"`

	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	OEmbedEndpoint string        `mapstructure:"OEMBED_ENDPOINT"`
	Fetcher        string        `mapstructure:"FETCHER"`
	FetchTimeout   time.Duration `mapstructure:"FETCH_TIMEOUT"`
	UserAgent      string        `mapstructure:"USER_AGENT"`

	// TelegramBotToken enables the Telegram surface when set.
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
}

const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"

	FetcherHTTP = "http"
	FetcherRod  = "rod"
)

var defaults = map[string]any{
	"LISTEN_ADDR":        ":8080",
	"LOG_LEVEL":          "info",
	"STORAGE_DRIVER":     DriverBadger,
	"BADGERDB_PATH":      "./badger_data",
	"STORAGE_URL":        "",
	"STORAGE_KEY":        "",
	"GEMINI_API_KEY":     "",
	"GEMINI_MODEL":       "gemini-2.5-flash",
	"OEMBED_ENDPOINT":    "https://noembed.com/embed",
	"FETCHER":            FetcherHTTP,
	"FETCH_TIMEOUT":      "15s",
	"USER_AGENT":         "Mozilla/5.0 (Bot)",
	"TELEGRAM_BOT_TOKEN": "",
}

// LoadConfig reads configuration from path/config.yaml and the environment.
// Environment variables take precedence; a missing config file is not an
// error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Every key needs a default so AutomaticEnv values reach Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports missing secrets and unknown driver names.
func (c Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	switch c.StorageDriver {
	case DriverBadger:
		if c.BadgerDBPath == "" {
			return fmt.Errorf("BADGERDB_PATH is not set")
		}
	case DriverPostgres:
		if c.StorageURL == "" {
			return fmt.Errorf("STORAGE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.Fetcher {
	case FetcherHTTP, FetcherRod:
	default:
		return fmt.Errorf("unknown FETCHER %q", c.Fetcher)
	}
	return nil
}
