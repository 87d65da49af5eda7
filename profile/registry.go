package profile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Registry maps file extensions to parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry returns a registry with the JSON, YAML and XLSX parsers.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	for _, p := range []Parser{&JSONParser{}, &YAMLParser{}, &XLSXParser{}} {
		for _, f := range p.SupportedFormats() {
			r.parsers[f] = p
		}
	}
	return r
}

// Get returns the parser for a format such as "json" or "yaml".
func (r *Registry) Get(format string) (Parser, error) {
	p, ok := r.parsers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("no parser for format: %s", format)
	}
	return p, nil
}

// Register adds or replaces the parser for a format.
func (r *Registry) Register(format string, p Parser) {
	r.parsers[strings.ToLower(format)] = p
}

// ParseFile picks a parser from the file extension and parses the file.
func (r *Registry) ParseFile(ctx context.Context, path string) (*Profile, error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	p, err := r.Get(format)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening profile: %w", err)
	}
	defer f.Close()

	prof, err := p.Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return prof, nil
}
