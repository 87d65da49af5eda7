package report

import "strings"

// Inline markup understood by the renderers.
const (
	boldOpen    = "<b>"
	boldClose   = "</b>"
	italicOpen  = "<i>"
	italicClose = "</i>"
)

// TransformInline rewrites **bold** and _italic_ markers into <b> and <i>
// spans. The bold pass runs over the whole text before the italic pass.
// Pairs never span a line break and are matched shortest-first, so
// "snake_case_name" becomes "snake<i>case</i>name".
func TransformInline(text string) string {
	text = replacePairs(text, "**", boldOpen, boldClose)
	return replacePairs(text, "_", italicOpen, italicClose)
}

// replacePairs scans left to right for marker, and when a second marker
// follows on the same line, wraps the text between them in open/close.
// A marker with no partner on its line is kept and scanning resumes one
// byte later.
func replacePairs(text, marker, open, close string) string {
	if !strings.Contains(text, marker) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(text) {
		if !strings.HasPrefix(text[i:], marker) {
			b.WriteByte(text[i])
			i++
			continue
		}

		start := i + len(marker)
		lineEnd := strings.IndexByte(text[start:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text) - start
		}
		end := strings.Index(text[start:start+lineEnd], marker)
		if end < 0 {
			b.WriteByte(text[i])
			i++
			continue
		}

		b.WriteString(open)
		b.WriteString(text[start : start+end])
		b.WriteString(close)
		i = start + end + len(marker)
	}
	return b.String()
}

// Span is a run of text sharing one font style.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
}

// ParseSpans splits markup produced by TransformInline into styled runs.
// Tags nest; a closing tag without a matching opener is ignored. Anything
// other than the four known tags is literal text.
func ParseSpans(markup string) []Span {
	var (
		spans  []Span
		cur    strings.Builder
		bold   int
		italic int
	)

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		spans = append(spans, Span{Text: cur.String(), Bold: bold > 0, Italic: italic > 0})
		cur.Reset()
	}

	for i := 0; i < len(markup); {
		rest := markup[i:]
		switch {
		case strings.HasPrefix(rest, boldOpen):
			flush()
			bold++
			i += len(boldOpen)
		case strings.HasPrefix(rest, boldClose):
			flush()
			if bold > 0 {
				bold--
			}
			i += len(boldClose)
		case strings.HasPrefix(rest, italicOpen):
			flush()
			italic++
			i += len(italicOpen)
		case strings.HasPrefix(rest, italicClose):
			flush()
			if italic > 0 {
				italic--
			}
			i += len(italicClose)
		default:
			cur.WriteByte(markup[i])
			i++
		}
	}
	flush()
	return spans
}

// StripMarkup removes inline tags, leaving plain text.
func StripMarkup(markup string) string {
	var b strings.Builder
	for _, s := range ParseSpans(markup) {
		b.WriteString(s.Text)
	}
	return b.String()
}
