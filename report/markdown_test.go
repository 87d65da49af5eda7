package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteMarkdown(t *testing.T) {
	doc := Assemble(ReportTitle("health"), "Risk Score: 5.5/10\n"+roundTripNarrative)

	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, doc); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# MUFG Risk Mirror Analyzer Report - Health Risk",
		"Risk Score",
		"5.5/10",
		"## Risk Overview",
		"Your **score** is high.",
		"Reduce exposure",
		"## Next Steps",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "## Risk Overview") > strings.Index(out, "## Next Steps") {
		t.Error("sections out of order")
	}
}

func TestMarkupToMarkdown(t *testing.T) {
	if got := markupToMarkdown("plain <b>bold</b>"); got != "plain **bold**" {
		t.Errorf("markupToMarkdown = %q", got)
	}
}
