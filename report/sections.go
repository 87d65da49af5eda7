package report

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const sectionMarker = "##"

// headingCutset is stripped from both edges of a section's first line.
const headingCutset = " #🎯📊💡📈"

// Section is a heading and the raw body lines that follow it.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// SplitSections cuts text on every "##" plus any whitespace after it. The
// first line of every chunk, including text before the first marker, becomes
// its heading. Text with no marker at all is one section with an empty
// heading. Blank chunks are dropped and order is kept.
func SplitSections(text string) []Section {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	chunks := splitOnMarker(text)
	if len(chunks) == 1 {
		body := trimLines(strings.Split(strings.TrimSpace(chunks[0]), "\n"))
		if body == "" {
			return nil
		}
		return []Section{{Body: body}}
	}

	var sections []Section
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		lines := strings.Split(chunk, "\n")
		sections = append(sections, Section{
			Heading: strings.Trim(lines[0], headingCutset),
			Body:    trimLines(lines[1:]),
		})
	}
	return sections
}

// splitOnMarker returns the chunks between markers. The first chunk is the
// text before the first marker and may be empty.
func splitOnMarker(text string) []string {
	var chunks []string
	for {
		idx := strings.Index(text, sectionMarker)
		if idx < 0 {
			return append(chunks, text)
		}
		chunks = append(chunks, text[:idx])
		text = skipSpace(text[idx+len(sectionMarker):])
	}
}

func skipSpace(s string) string {
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if !unicode.IsSpace(r) {
			break
		}
		s = s[size:]
	}
	return s
}

func trimLines(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
