package riskmirror

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/brunobiangulo/riskmirror/llm"
	"github.com/brunobiangulo/riskmirror/reportstore"
)

// Config holds all configuration for the riskmirror engine.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to <data dir>/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	DBName string `json:"db_name" yaml:"db_name" mapstructure:"db_name"`

	// StorageDir controls where data lives when paths are not explicit.
	// "home" (default) uses $XDG_DATA_HOME/riskmirror, "local" uses the
	// current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir" mapstructure:"storage_dir"`

	// Reports configures where rendered PDFs are kept. An empty local
	// directory resolves to <data dir>/reports.
	Reports reportstore.Config `json:"reports" yaml:"reports" mapstructure:"reports"`

	// Chat generates the narrative. Embedding is optional; when its
	// provider is empty, similarity search is disabled.
	Chat      llm.Config `json:"chat" yaml:"chat" mapstructure:"chat"`
	Embedding llm.Config `json:"embedding" yaml:"embedding" mapstructure:"embedding"`

	// Embedding dimensions (must match model)
	EmbeddingDim int `json:"embedding_dim" yaml:"embedding_dim" mapstructure:"embedding_dim"`

	// Completion parameters for the narrative request.
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
}

// DefaultConfig returns a Config that talks to AI21 and keeps its data under
// the XDG data directory.
func DefaultConfig() Config {
	return Config{
		DBName:     "riskmirror",
		StorageDir: "home",
		Reports:    reportstore.Config{Backend: "local"},
		Chat: llm.Config{
			Provider: "ai21",
			Model:    "jamba-large",
		},
		EmbeddingDim: 768,
		MaxTokens:    2048,
		Temperature:  0.7,
	}
}

// Validate reports configuration values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Chat.Provider == "" {
		return fmt.Errorf("%w: chat provider not specified", ErrInvalidConfig)
	}
	if c.EmbeddingDim < 0 {
		return fmt.Errorf("%w: embedding_dim must not be negative", ErrInvalidConfig)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("%w: max_tokens must not be negative", ErrInvalidConfig)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: temperature %.2f out of range [0, 2]", ErrInvalidConfig, c.Temperature)
	}
	return nil
}

// dataDir is the directory holding the database and local reports.
func (c *Config) dataDir() string {
	switch c.StorageDir {
	case "local", "cwd":
		return "."
	default: // "home" or empty
		return filepath.Join(xdg.DataHome, "riskmirror")
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	name := c.DBName
	if name == "" {
		name = "riskmirror"
	}
	return filepath.Join(c.dataDir(), name+".db")
}

// resolveReports fills in the local report directory when unset.
func (c *Config) resolveReports() reportstore.Config {
	rs := c.Reports
	if (rs.Backend == "" || rs.Backend == "local") && rs.Dir == "" {
		rs.Dir = filepath.Join(c.dataDir(), "reports")
	}
	return rs
}
