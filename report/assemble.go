package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Spacer heights between the fixed parts of a report.
const (
	titleGap   = 0.2 * inch
	summaryGap = 0.3 * inch
	sectionGap = 0.15 * inch
)

// Document is a narrative that has been parsed and laid out as elements.
type Document struct {
	Title    string    `json:"title"`
	Metrics  Metrics   `json:"metrics"`
	Sections []Section `json:"sections"`
	Elements []Element `json:"-"`
}

// ReportTitle returns the first-page title for a risk domain.
func ReportTitle(domain string) string {
	return "MUFG Risk Mirror Analyzer Report - " + cases.Title(language.English).String(strings.ToLower(domain)) + " Risk"
}

// Assemble extracts the metrics from narrative, splits it into sections and
// lays each section out under its heading. The result starts with the title
// and the summary table.
func Assemble(title, narrative string) Document {
	doc := Document{
		Title:    title,
		Metrics:  ExtractMetrics(narrative),
		Sections: SplitSections(narrative),
	}

	doc.Elements = append(doc.Elements,
		Title{Text: title},
		Spacer{Height: titleGap},
		SummaryTable{Score: doc.Metrics.Score + "/10", Category: doc.Metrics.Category},
		Spacer{Height: summaryGap},
	)

	for _, s := range doc.Sections {
		doc.Elements = append(doc.Elements, SectionElements(s)...)
		doc.Elements = append(doc.Elements, Spacer{Height: sectionGap})
	}
	return doc
}

// SectionElements lays out one section: its heading, if any, followed by the
// classified body with inline markup applied.
func SectionElements(s Section) []Element {
	var elems []Element
	if s.Heading != "" {
		elems = append(elems, Heading{Text: s.Heading})
	}
	return append(elems, ClassifyBody(TransformInline(s.Body))...)
}
