package report

import (
	"fmt"
	"io"

	"github.com/yuin/goldmark"
)

var htmlConverter = goldmark.New()

// RenderHTML converts the raw narrative to an HTML fragment for on-screen
// preview. Raw HTML in the narrative is not passed through.
func RenderHTML(w io.Writer, narrative string) error {
	if err := htmlConverter.Convert([]byte(narrative), w); err != nil {
		return fmt.Errorf("converting narrative to html: %w", err)
	}
	return nil
}
