package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/brunobiangulo/riskmirror"
	"github.com/brunobiangulo/riskmirror/llm"
	"github.com/spf13/viper"
)

// serverConfig holds settings that only the HTTP server reads.
type serverConfig struct {
	Addr        string
	APIKey      string
	CORSOrigins string
}

// wellKnownKeys maps providers to the environment variable their SDKs use.
var wellKnownKeys = map[string]string{
	"ai21":   "AI21_API_KEY",
	"openai": "OPENAI_API_KEY",
	"groq":   "GROQ_API_KEY",
}

// loadConfig merges defaults, an optional config file and RISKMIRROR_*
// environment variables.
func loadConfig(v *viper.Viper, file string) (riskmirror.Config, error) {
	if err := readConfig(v, file); err != nil {
		return riskmirror.Config{}, err
	}

	var cfg riskmirror.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", riskmirror.ErrInvalidConfig, err)
	}

	fillAPIKey(&cfg.Chat)
	fillAPIKey(&cfg.Embedding)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadServerConfig reads the server section after loadConfig has run. Keys
// are read one by one so environment overrides apply to each.
func loadServerConfig(v *viper.Viper) serverConfig {
	return serverConfig{
		Addr:        v.GetString("server.addr"),
		APIKey:      v.GetString("server.api_key"),
		CORSOrigins: v.GetString("server.cors_origins"),
	}
}

func readConfig(v *viper.Viper, file string) error {
	setDefaults(v, riskmirror.DefaultConfig())

	v.SetEnvPrefix("RISKMIRROR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", file, err)
		}
		return nil
	}

	v.SetConfigName("riskmirror")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, "riskmirror"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// appear in no config file.
func setDefaults(v *viper.Viper, c riskmirror.Config) {
	v.SetDefault("db_path", c.DBPath)
	v.SetDefault("db_name", c.DBName)
	v.SetDefault("storage_dir", c.StorageDir)
	v.SetDefault("embedding_dim", c.EmbeddingDim)
	v.SetDefault("max_tokens", c.MaxTokens)
	v.SetDefault("temperature", c.Temperature)

	v.SetDefault("reports.backend", c.Reports.Backend)
	v.SetDefault("reports.dir", c.Reports.Dir)
	v.SetDefault("reports.container", c.Reports.Container)
	v.SetDefault("reports.connection_string", c.Reports.ConnectionString)
	v.SetDefault("reports.account_url", c.Reports.AccountURL)

	for prefix, l := range map[string]llm.Config{"chat": c.Chat, "embedding": c.Embedding} {
		v.SetDefault(prefix+".provider", l.Provider)
		v.SetDefault(prefix+".model", l.Model)
		v.SetDefault(prefix+".base_url", l.BaseURL)
		v.SetDefault(prefix+".api_key", l.APIKey)
		v.SetDefault(prefix+".timeout", l.Timeout)
		v.SetDefault(prefix+".max_retries", l.MaxRetries)
	}

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.cors_origins", "")
}

// fillAPIKey falls back to the vendor's conventional environment variable.
func fillAPIKey(c *llm.Config) {
	if c.APIKey != "" {
		return
	}
	if env, ok := wellKnownKeys[c.Provider]; ok {
		c.APIKey = os.Getenv(env)
	}
}
