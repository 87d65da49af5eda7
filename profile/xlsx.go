package profile

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXParser reads the first sheet as two columns of key and value.
// A row keyed "domain" selects the domain; an optional "key | value"
// header row is skipped.
type XLSXParser struct{}

func (p *XLSXParser) SupportedFormats() []string { return []string{"xlsx"} }

func (p *XLSXParser) Parse(ctx context.Context, r io.Reader) (*Profile, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening XLSX: %v", ErrInvalid, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalid)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}

	prof := &Profile{Data: map[string]string{}}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" {
			continue
		}
		var value string
		if len(row) > 1 {
			value = strings.TrimSpace(row[1])
		}
		if i == 0 && strings.EqualFold(key, "key") && strings.EqualFold(value, "value") {
			continue
		}
		if strings.EqualFold(key, "domain") {
			prof.Domain = value
			continue
		}
		prof.Data[key] = value
	}

	if len(prof.Data) == 0 && prof.Domain == "" {
		return nil, fmt.Errorf("%w: no data found in XLSX", ErrInvalid)
	}
	return prof, nil
}
