package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

type JSONParser struct{}

func (p *JSONParser) SupportedFormats() []string { return []string{"json"} }

func (p *JSONParser) Parse(ctx context.Context, r io.Reader) (*Profile, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: decoding JSON: %v", ErrInvalid, err)
	}
	return FromMap(m)
}
