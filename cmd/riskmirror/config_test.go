package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brunobiangulo/riskmirror"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "riskmirror.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
db_path: /tmp/rm.db
embedding_dim: 384
temperature: 0.2
reports:
  backend: azblob
  container: reports
  connection_string: UseDevelopmentStorage=true
chat:
  provider: openai
  model: gpt-4o-mini
  api_key: from-file
  timeout: 45s
embedding:
  provider: ollama
  model: nomic-embed-text
server:
  addr: ":9000"
`)

	v := viper.New()
	cfg, err := loadConfig(v, path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/rm.db", cfg.DBPath)
	assert.Equal(t, 384, cfg.EmbeddingDim)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-9)
	assert.Equal(t, 2048, cfg.MaxTokens, "unset keys keep defaults")
	assert.Equal(t, "azblob", cfg.Reports.Backend)
	assert.Equal(t, "reports", cfg.Reports.Container)
	assert.Equal(t, "openai", cfg.Chat.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Chat.Model)
	assert.Equal(t, "from-file", cfg.Chat.APIKey)
	assert.Equal(t, 45*time.Second, cfg.Chat.Timeout)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)

	assert.Equal(t, ":9000", loadServerConfig(v).Addr)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "chat:\n  provider: openai\n  model: gpt-4o\n")
	t.Setenv("RISKMIRROR_CHAT_MODEL", "gpt-4o-mini")
	t.Setenv("RISKMIRROR_MAX_TOKENS", "512")
	t.Setenv("RISKMIRROR_REPORTS_DIR", "/srv/reports")
	t.Setenv("RISKMIRROR_SERVER_API_KEY", "s3cret")

	v := viper.New()
	cfg, err := loadConfig(v, path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Chat.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Chat.Model)
	assert.Equal(t, 512, cfg.MaxTokens)
	assert.Equal(t, "/srv/reports", cfg.Reports.Dir)

	sc := loadServerConfig(v)
	assert.Equal(t, "s3cret", sc.APIKey)
	assert.Equal(t, ":8080", sc.Addr)
}

func TestLoadConfigWellKnownKey(t *testing.T) {
	path := writeConfig(t, "chat:\n  provider: groq\n")
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "gsk-test", cfg.Chat.APIKey)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := writeConfig(t, "temperature: 3.5\n")

	_, err := loadConfig(viper.New(), path)
	assert.ErrorIs(t, err, riskmirror.ErrInvalidConfig)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
