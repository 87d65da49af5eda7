// Package profile reads user profiles from request bodies and files.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalid is returned when input cannot be read as a profile.
var ErrInvalid = errors.New("profile: invalid profile")

// Profile is a submitted profile and the domain it should be analyzed in.
type Profile struct {
	Domain string            `json:"domain"`
	Data   map[string]string `json:"data"`
}

// Keys returns the profile's field names in sorted order.
func (p *Profile) Keys() []string {
	keys := make([]string, 0, len(p.Data))
	for k := range p.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parser reads one profile from an input stream.
type Parser interface {
	Parse(ctx context.Context, r io.Reader) (*Profile, error)
	SupportedFormats() []string
}

// FromMap builds a Profile from a decoded document. Two shapes are accepted:
// {"domain": ..., "data": {...}} and a flat object whose "domain" key sits
// beside the profile fields.
func FromMap(m map[string]any) (*Profile, error) {
	p := &Profile{Data: map[string]string{}}

	if d, ok := m["domain"]; ok {
		s, err := scalarString(d)
		if err != nil {
			return nil, fmt.Errorf("%w: domain: %v", ErrInvalid, err)
		}
		p.Domain = strings.TrimSpace(s)
	}

	fields, flat := m, true
	if nested, ok := m["data"]; ok {
		obj, ok := nested.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: data must be an object", ErrInvalid)
		}
		fields, flat = obj, false
	}

	for k, v := range fields {
		if flat && k == "domain" {
			continue
		}
		s, err := scalarString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalid, k, err)
		}
		p.Data[k] = s
	}
	return p, nil
}

func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case json.Number:
		return val.String(), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}
