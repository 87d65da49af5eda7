package riskmirror

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Chat.Provider != "ai21" || cfg.Chat.Model != "jamba-large" {
		t.Errorf("chat: got %s/%s", cfg.Chat.Provider, cfg.Chat.Model)
	}
	if cfg.MaxTokens != 2048 || cfg.Temperature != 0.7 {
		t.Errorf("completion params: got %d/%v", cfg.MaxTokens, cfg.Temperature)
	}
	if cfg.Embedding.Provider != "" {
		t.Errorf("embeddings should be off by default, got %q", cfg.Embedding.Provider)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no chat provider", func(c *Config) { c.Chat.Provider = "" }},
		{"negative dim", func(c *Config) { c.EmbeddingDim = -1 }},
		{"negative max tokens", func(c *Config) { c.MaxTokens = -5 }},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestResolveDBPath(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit", Config{DBPath: "/tmp/x.db"}, "/tmp/x.db"},
		{"local", Config{DBName: "hist", StorageDir: "local"}, "hist.db"},
		{"home default name", Config{}, filepath.Join(xdg.DataHome, "riskmirror", "riskmirror.db")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.resolveDBPath(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveReports(t *testing.T) {
	cfg := Config{StorageDir: "local"}
	if got := cfg.resolveReports().Dir; got != "reports" {
		t.Errorf("local reports dir: got %q", got)
	}

	cfg.Reports.Dir = "/srv/reports"
	if got := cfg.resolveReports().Dir; got != "/srv/reports" {
		t.Errorf("explicit reports dir: got %q", got)
	}

	cfg = Config{Reports: DefaultConfig().Reports}
	cfg.Reports.Backend = "azblob"
	if got := cfg.resolveReports().Dir; got != "" {
		t.Errorf("azblob should not get a local dir, got %q", got)
	}
}
