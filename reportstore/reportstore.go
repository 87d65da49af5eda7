// Package reportstore persists rendered report bytes under opaque keys.
package reportstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no report exists under a key.
var ErrNotFound = errors.New("reportstore: report not found")

// ErrInvalidKey is returned for keys that are empty or would escape the
// store's namespace.
var ErrInvalidKey = errors.New("reportstore: invalid key")

// Store is a flat key/value store for report documents.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a Store backend.
type Config struct {
	// Backend is "local" (default) or "azblob".
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`
	// Dir is the directory used by the local backend.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
	// Container is the blob container used by the azblob backend.
	Container string `json:"container" yaml:"container" mapstructure:"container"`
	// ConnectionString authenticates with a shared key. When empty,
	// AccountURL is used with the default Azure credential chain.
	ConnectionString string `json:"connection_string" yaml:"connection_string" mapstructure:"connection_string"`
	AccountURL       string `json:"account_url" yaml:"account_url" mapstructure:"account_url"`
}

// New creates a Store from the given config.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocal(cfg.Dir)
	case "azblob":
		return NewAzureBlob(cfg)
	default:
		return nil, fmt.Errorf("unknown report store backend: %s", cfg.Backend)
	}
}

// ValidateKey rejects keys that are empty or contain path components.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
