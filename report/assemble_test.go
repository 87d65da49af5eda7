package report

import (
	"reflect"
	"testing"
)

const roundTripNarrative = "## Risk Overview\nYour **score** is high.\n- Reduce exposure\n- Review quarterly\n\n## Next Steps\n_Act now._"

func TestSectionElementsRoundTrip(t *testing.T) {
	sections := SplitSections(roundTripNarrative)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}

	first := SectionElements(sections[0])
	wantFirst := []Element{
		Heading{Text: "Risk Overview"},
		Paragraph{Text: "Your <b>score</b> is high."},
		BulletList{Items: []string{"Reduce exposure", "Review quarterly"}},
	}
	if !reflect.DeepEqual(first, wantFirst) {
		t.Errorf("first section = %#v, want %#v", first, wantFirst)
	}

	second := SectionElements(sections[1])
	wantSecond := []Element{
		Heading{Text: "Next Steps"},
		Paragraph{Text: "<i>Act now.</i>"},
	}
	if !reflect.DeepEqual(second, wantSecond) {
		t.Errorf("second section = %#v, want %#v", second, wantSecond)
	}
}

func TestAssemble(t *testing.T) {
	narrative := "Risk Score: 7.5/10\nRisk Category: High Risk\n" + roundTripNarrative
	doc := Assemble("Title", narrative)

	if doc.Metrics.Score != "7.5" || doc.Metrics.Category != "High Risk" {
		t.Errorf("metrics = %+v", doc.Metrics)
	}

	want := []Element{
		Title{Text: "Title"},
		Spacer{Height: titleGap},
		SummaryTable{Score: "7.5/10", Category: "High Risk"},
		Spacer{Height: summaryGap},
		// Text before the first marker takes its first line as heading.
		Heading{Text: "Risk Score: 7.5/10"},
		Paragraph{Text: "Risk Category: High Risk"},
		Spacer{Height: sectionGap},
		Heading{Text: "Risk Overview"},
		Paragraph{Text: "Your <b>score</b> is high."},
		BulletList{Items: []string{"Reduce exposure", "Review quarterly"}},
		Spacer{Height: sectionGap},
		Heading{Text: "Next Steps"},
		Paragraph{Text: "<i>Act now.</i>"},
		Spacer{Height: sectionGap},
	}
	if !reflect.DeepEqual(doc.Elements, want) {
		t.Errorf("elements =\n%#v\nwant\n%#v", doc.Elements, want)
	}
}

func TestAssembleMarkerless(t *testing.T) {
	doc := Assemble("T", "Just one paragraph.")
	if doc.Metrics.Score != NotAvailable || doc.Metrics.Category != NotAvailable {
		t.Errorf("metrics = %+v, want sentinels", doc.Metrics)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Heading != "" {
		t.Fatalf("sections = %+v", doc.Sections)
	}
	for _, e := range doc.Elements {
		if _, ok := e.(Heading); ok {
			t.Errorf("unexpected heading element %#v", e)
		}
	}
	if table, ok := doc.Elements[2].(SummaryTable); !ok || table.Score != "N/A/10" {
		t.Errorf("summary table = %#v", doc.Elements[2])
	}
}

func TestReportTitle(t *testing.T) {
	tests := map[string]string{
		"finance": "MUFG Risk Mirror Analyzer Report - Finance Risk",
		"HEALTH":  "MUFG Risk Mirror Analyzer Report - Health Risk",
	}
	for domain, want := range tests {
		if got := ReportTitle(domain); got != want {
			t.Errorf("ReportTitle(%q) = %q, want %q", domain, got, want)
		}
	}
}
