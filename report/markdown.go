package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"
)

// WriteMarkdown writes doc as a Markdown document: the title, the summary
// table, then every section with its paragraphs and bullet lists.
func WriteMarkdown(w io.Writer, doc Document) error {
	md := markdown.NewMarkdown(w)

	md.H1(doc.Title)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Risk Score", "Risk Category"},
		Rows:   [][]string{{doc.Metrics.Score + "/10", doc.Metrics.Category}},
	})
	md.PlainText("")

	for _, s := range doc.Sections {
		for _, e := range SectionElements(s) {
			switch e := e.(type) {
			case Heading:
				md.H2(e.Text)
			case Paragraph:
				md.PlainText(markupToMarkdown(e.Text))
			case BulletList:
				items := make([]string, len(e.Items))
				for i, item := range e.Items {
					items[i] = markupToMarkdown(item)
				}
				md.BulletList(items...)
			}
			md.PlainText("")
		}
	}

	return md.Build()
}

// markupToMarkdown converts <b>/<i> spans back to Markdown emphasis.
func markupToMarkdown(markup string) string {
	var b strings.Builder
	for _, s := range ParseSpans(markup) {
		switch {
		case s.Bold && s.Italic:
			b.WriteString(markdown.Bold(markdown.Italic(s.Text)))
		case s.Bold:
			b.WriteString(markdown.Bold(s.Text))
		case s.Italic:
			b.WriteString(markdown.Italic(s.Text))
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
