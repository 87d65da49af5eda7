package profile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestFromMapShapes(t *testing.T) {
	tests := []struct {
		name       string
		in         map[string]any
		wantDomain string
		wantData   map[string]string
	}{
		{
			name:       "nested data",
			in:         map[string]any{"domain": "finance", "data": map[string]any{"name": "Ann", "income": 5000.0}},
			wantDomain: "finance",
			wantData:   map[string]string{"name": "Ann", "income": "5000"},
		},
		{
			name:       "flat",
			in:         map[string]any{"domain": " Health ", "name": "Bo", "smoker": false, "age": 41},
			wantDomain: "Health",
			wantData:   map[string]string{"name": "Bo", "smoker": "false", "age": "41"},
		},
		{
			name:       "null value",
			in:         map[string]any{"data": map[string]any{"notes": nil}},
			wantDomain: "",
			wantData:   map[string]string{"notes": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FromMap(tt.in)
			if err != nil {
				t.Fatalf("FromMap: %v", err)
			}
			if p.Domain != tt.wantDomain {
				t.Errorf("domain: got %q, want %q", p.Domain, tt.wantDomain)
			}
			if len(p.Data) != len(tt.wantData) {
				t.Fatalf("data: got %v, want %v", p.Data, tt.wantData)
			}
			for k, v := range tt.wantData {
				if p.Data[k] != v {
					t.Errorf("data[%q]: got %q, want %q", k, p.Data[k], v)
				}
			}
		})
	}
}

func TestFromMapRejectsNested(t *testing.T) {
	_, err := FromMap(map[string]any{"data": map[string]any{"x": []any{1, 2}}})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	_, err = FromMap(map[string]any{"data": "not an object"})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for scalar data, got %v", err)
	}
}

func TestKeysSorted(t *testing.T) {
	p := &Profile{Data: map[string]string{"b": "1", "a": "2", "c": "3"}}
	if got := strings.Join(p.Keys(), ","); got != "a,b,c" {
		t.Errorf("keys: got %q", got)
	}
}

func TestJSONParser(t *testing.T) {
	p, err := (&JSONParser{}).Parse(context.Background(),
		strings.NewReader(`{"domain":"finance","data":{"name":"Ann","monthly_income":5000.50}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Domain != "finance" || p.Data["monthly_income"] != "5000.50" {
		t.Errorf("got %+v", p)
	}
}

func TestJSONParserInvalid(t *testing.T) {
	_, err := (&JSONParser{}).Parse(context.Background(), strings.NewReader(`{not json`))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestYAMLParser(t *testing.T) {
	doc := "domain: health\nname: Bo\nage: 41\nsmoker: true\n"
	p, err := (&YAMLParser{}).Parse(context.Background(), strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Domain != "health" {
		t.Errorf("domain: got %q", p.Domain)
	}
	if p.Data["age"] != "41" || p.Data["smoker"] != "true" || p.Data["name"] != "Bo" {
		t.Errorf("data: got %v", p.Data)
	}
	if _, ok := p.Data["domain"]; ok {
		t.Error("domain leaked into profile data")
	}
}

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "profile.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestXLSXParser(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Key", "Value"},
		{"domain", "finance"},
		{"name", "Ann"},
		{"monthly_income", "5000"},
		{"", "ignored"},
	})

	p, err := NewRegistry().ParseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Domain != "finance" {
		t.Errorf("domain: got %q", p.Domain)
	}
	if len(p.Data) != 2 || p.Data["name"] != "Ann" || p.Data["monthly_income"] != "5000" {
		t.Errorf("data: got %v", p.Data)
	}
}

func TestXLSXParserEmpty(t *testing.T) {
	path := writeWorkbook(t, nil)
	_, err := NewRegistry().ParseFile(context.Background(), path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestRegistryParseFileByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.json": `{"domain":"finance","name":"Ann"}`,
		"b.YML":  "domain: health\nname: Bo\n",
		"c.yaml": "domain: health\nname: Cy\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	r := NewRegistry()
	for name := range files {
		p, err := r.ParseFile(context.Background(), filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if p.Data["name"] == "" {
			t.Errorf("%s: name missing from %v", name, p.Data)
		}
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	if _, err := NewRegistry().Get("csv"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("TXT", &JSONParser{})
	if _, err := r.Get("txt"); err != nil {
		t.Fatalf("expected registered parser: %v", err)
	}
}
