package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DriverBadger, cfg.StorageDriver)
	assert.Equal(t, "./badger_data", cfg.BadgerDBPath)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "https://noembed.com/embed", cfg.OEmbedEndpoint)
	assert.Equal(t, FetcherHTTP, cfg.Fetcher)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "Mozilla/5.0 (Bot)", cfg.UserAgent)
	assert.Empty(t, cfg.TelegramBotToken)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "LISTEN_ADDR: \":9000\"\nSTORAGE_DRIVER: postgres\nSTORAGE_URL: postgres://file@localhost/db\nFETCH_TIMEOUT: 3s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("STORAGE_URL", "postgres://env@localhost/db")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "postgres://env@localhost/db", cfg.StorageURL, "env wins over file")
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing api key", env: map[string]string{}},
		{name: "postgres without url", env: map[string]string{"GEMINI_API_KEY": "k", "STORAGE_DRIVER": "postgres"}},
		{name: "unknown driver", env: map[string]string{"GEMINI_API_KEY": "k", "STORAGE_DRIVER": "mongo"}},
		{name: "unknown fetcher", env: map[string]string{"GEMINI_API_KEY": "k", "FETCHER": "curl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(t.TempDir())
			assert.Error(t, err)
		})
	}
}
