package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFInfo describes a rendered report as a reader sees it.
type PDFInfo struct {
	Pages int    `json:"pages"`
	Text  string `json:"text"`
	// PageText holds the text of each page in order; a page whose text
	// cannot be extracted is left empty.
	PageText []string `json:"-"`
}

// InspectPDF reads a PDF file back and returns its page count and plain
// text, one page per paragraph.
func InspectPDF(data []byte) (info PDFInfo, err error) {
	// The reader panics on some malformed inputs instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return PDFInfo{}, fmt.Errorf("opening pdf: %w", err)
	}

	info.Pages = reader.NumPage()
	info.PageText = make([]string, info.Pages)
	pages := make([]string, 0, info.Pages)
	for i := 1; i <= info.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		text = strings.TrimSpace(text)
		info.PageText[i-1] = text
		pages = append(pages, text)
	}
	info.Text = strings.Join(pages, "\n\n")
	return info, nil
}
