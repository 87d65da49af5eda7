package report

import "strings"

// scanState is the position of the body scanner relative to the elements it
// has emitted.
type scanState int

const (
	// stateBoundary: start of a section body, nothing emitted yet.
	stateBoundary scanState = iota
	// stateParagraph: the last element emitted was a paragraph.
	stateParagraph
	// stateBullets: a bullet run is open and collecting items.
	stateBullets
)

// ClassifyBody turns a section body into paragraphs and bullet lists. It
// expects inline markup to have been applied already. Blank lines are
// discarded before classification, so they never split a bullet run. A line
// starting with "-" or "•" is a bullet item; consecutive items form one
// BulletList and every other line is its own Paragraph.
func ClassifyBody(body string) []Element {
	var (
		elems []Element
		items []string
		state = stateBoundary
	)

	closeRun := func() {
		elems = append(elems, BulletList{Items: items})
		items = nil
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if isBullet(line) {
			items = append(items, strings.TrimLeft(line, "-• "))
			state = stateBullets
			continue
		}

		if state == stateBullets {
			closeRun()
		}
		elems = append(elems, Paragraph{Text: line})
		state = stateParagraph
	}

	if state == stateBullets {
		closeRun()
	}
	return elems
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•")
}
