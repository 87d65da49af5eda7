// Package report turns a narrative produced by the chat model into an ordered
// list of layout elements and renders those elements as PDF, Markdown or HTML.
package report

// Element is a single unit of layout handed to a renderer. The set of
// implementations is closed: Title, Spacer, SummaryTable, Heading, Paragraph
// and BulletList.
type Element interface {
	element()
}

// Title is the centred report title on the first page.
type Title struct {
	Text string
}

// Spacer is vertical whitespace, in points.
type Spacer struct {
	Height float64
}

// SummaryTable is the two-column score/category table placed under the title.
type SummaryTable struct {
	Score    string
	Category string
}

// Heading is a section heading.
type Heading struct {
	Text string
}

// Paragraph is one body line. Text carries inline <b>/<i> markup.
type Paragraph struct {
	Text string
}

// BulletList is a maximal run of consecutive bullet lines. Items carry
// inline <b>/<i> markup.
type BulletList struct {
	Items []string
}

func (Title) element()        {}
func (Spacer) element()       {}
func (SummaryTable) element() {}
func (Heading) element()      {}
func (Paragraph) element()    {}
func (BulletList) element()   {}
