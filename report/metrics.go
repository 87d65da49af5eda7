package report

import (
	"regexp"
	"strings"
)

// NotAvailable is returned by the extractors when the narrative does not
// contain the value.
const NotAvailable = "N/A"

var (
	// Any decimal digit counts, not only ASCII ones.
	scorePattern    = regexp.MustCompile(`(\p{Nd}+(\.\p{Nd}+)?)/10`)
	categoryPattern = regexp.MustCompile(`Risk Category.*?:\s*(.+)`)
)

// Metrics holds the score and category found in a narrative.
type Metrics struct {
	Score    string `json:"score"`
	Category string `json:"category"`
}

// ExtractMetrics runs both extractors over text.
func ExtractMetrics(text string) Metrics {
	return Metrics{
		Score:    ExtractScore(text),
		Category: ExtractCategory(text),
	}
}

// ExtractScore returns the number in front of the first "<n>/10" in text.
// The value is not range checked, so "12/10" yields "12".
func ExtractScore(text string) string {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return NotAvailable
	}
	return m[1]
}

// ExtractCategory returns whatever follows the first colon on the first line
// mentioning "Risk Category".
func ExtractCategory(text string) string {
	m := categoryPattern.FindStringSubmatch(text)
	if m == nil {
		return NotAvailable
	}
	return strings.TrimSpace(m[1])
}
