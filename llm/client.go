package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultTimeout    = 120 * time.Second
	defaultMaxRetries = 6
)

// Backoff schedule. Variables so tests can shorten them.
var (
	baseRetryDelay    = 2 * time.Second
	minRateLimitDelay = 5 * time.Second // minimum delay for 429 errors
)

// client is the shared OpenAI-compatible HTTP client behind every provider.
type client struct {
	cfg        Config
	http       *http.Client
	pathPrefix string
	maxRetries int
}

func newClient(cfg Config, prefix string) client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.MaxRetries
	switch {
	case retries == 0:
		retries = defaultMaxRetries
	case retries < 0:
		retries = 0
	}
	return client{
		cfg:        cfg,
		pathPrefix: prefix,
		maxRetries: retries,
		http:       &http.Client{Timeout: timeout},
	}
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Model string `json:"model"`
	Usage Usage  `json:"usage"`
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *client) chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	respBody, err := c.post(ctx, c.pathPrefix+"/chat/completions", chatCompletionRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return &ChatResponse{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		FinishReason: resp.Choices[0].FinishReason,
		Usage:        resp.Usage,
	}, nil
}

func (c *client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	respBody, err := c.post(ctx, c.pathPrefix+"/embeddings", embeddingRequest{
		Model: c.cfg.Model,
		Input: texts,
	})
	if err != nil {
		return nil, err
	}

	var resp embeddingResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}

	// Order by index; providers may return data out of order.
	embeddings := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index >= 0 && d.Index < len(embeddings) {
			embeddings[d.Index] = d.Embedding
		}
	}
	return embeddings, nil
}

// retryableStatusCode returns true for HTTP status codes that warrant a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable ||
		code == http.StatusGatewayTimeout
}

// post sends body as JSON to path and returns the 200 response body.
// Network errors and retryable statuses are retried with exponential
// backoff; 429 waits at least minRateLimitDelay or the Retry-After value.
func (c *client) post(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	url := c.cfg.BaseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(1<<(attempt-1))
			slog.Warn("llm: retrying request",
				"url", url,
				"attempt", attempt,
				"delay", delay,
				"error", lastErr,
			)
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("request to %s failed: %w", url, err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading response body: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return respBody, nil
		}

		lastErr = fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
		if !retryableStatusCode(resp.StatusCode) {
			return nil, lastErr
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := rateLimitDelay(attempt, resp.Header.Get("Retry-After"))
			slog.Warn("llm: rate limited, waiting before retry",
				"url", url,
				"attempt", attempt+1,
				"delay", wait,
			)
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("%w: max retries exceeded: %w", ErrRequestFailed, lastErr)
}

// rateLimitDelay doubles minRateLimitDelay per attempt and honours a longer
// Retry-After given in seconds.
func rateLimitDelay(attempt int, retryAfter string) time.Duration {
	d := minRateLimitDelay * time.Duration(1<<attempt)
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		if header := time.Duration(seconds) * time.Second; header > d {
			d = header
		}
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
