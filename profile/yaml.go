package profile

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type YAMLParser struct{}

func (p *YAMLParser) SupportedFormats() []string { return []string{"yaml", "yml"} }

func (p *YAMLParser) Parse(ctx context.Context, r io.Reader) (*Profile, error) {
	var m map[string]any
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: decoding YAML: %v", ErrInvalid, err)
	}
	return FromMap(m)
}
