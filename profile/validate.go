package profile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed analyze_request.schema.json
var analyzeRequestSchema string

var printer = message.NewPrinter(language.English)

// Validator checks request bodies against a compiled JSON schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the analyze-request schema.
func NewValidator() (*Validator, error) {
	return compileValidator("analyze_request.schema.json", analyzeRequestSchema)
}

func compileValidator(name, raw string) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("adding %s: %w", name, err)
	}
	sch, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}
	return &Validator{schema: sch}, nil
}

// ValidationError lists every schema violation found in one document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Decode validates body and returns the profile it describes.
func (v *Validator) Decode(body []byte) (*Profile, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding JSON: %v", ErrInvalid, err)
	}
	if err := v.schema.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		var problems []string
		collectProblems(ve, &problems)
		return nil, &ValidationError{Problems: problems}
	}

	m, ok := inst.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: body must be an object", ErrInvalid)
	}
	return FromMap(m)
}

func collectProblems(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*out = append(*out, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, c := range ve.Causes {
		collectProblems(c, out)
	}
}
