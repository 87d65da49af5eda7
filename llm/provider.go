package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRequestFailed is returned when the provider answers with a
	// non-retryable error or retries are exhausted.
	ErrRequestFailed = errors.New("llm: request failed")

	// ErrEmptyResponse is returned when a chat completion has no choices.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Provider is the interface for LLM interactions.
type Provider interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Embed generates embeddings for a batch of texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRequest is a chat completion request. An empty Model uses the
// provider's configured model.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage is the token accounting reported with a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the response from a chat completion.
type ChatResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	FinishReason string `json:"finish_reason"`
	Usage        Usage  `json:"usage"`
}

// Config configures an LLM provider.
type Config struct {
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"` // ai21, openai, groq, openrouter, xai, gemini, ollama, lmstudio, custom
	Model    string `json:"model" yaml:"model" mapstructure:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key" mapstructure:"api_key"`

	// Timeout bounds a single HTTP attempt. Zero means 120s.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// MaxRetries is the number of retries after the first attempt. Zero
	// means 6; a negative value disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// NewProvider creates an LLM provider from configuration. Unset BaseURL and
// Model fields take the vendor's defaults.
func NewProvider(cfg Config) (Provider, error) {
	if cfg.Provider == "" {
		return nil, fmt.Errorf("llm provider not specified")
	}
	v, ok := vendors[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = v.baseURL
	}
	if cfg.Model == "" {
		cfg.Model = v.model
	}

	c := newClient(cfg, v.pathPrefix)
	if v.nativeEmbed {
		return &ollamaProvider{base: c}, nil
	}
	return &compatProvider{name: cfg.Provider, base: c}, nil
}
