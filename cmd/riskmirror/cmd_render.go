package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brunobiangulo/riskmirror/report"
	"github.com/brunobiangulo/riskmirror/scoring"
	"github.com/spf13/cobra"
)

// newRenderCommand renders a saved narrative without calling a model or
// touching the database.
func newRenderCommand(_ *app) *cobra.Command {
	var (
		domain string
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "render [narrative-file]",
		Short: "Render a narrative file as PDF, Markdown or HTML",
		Long: `Render lays out an existing narrative (read from the file, or stdin when
no file or "-" is given) exactly as the analyze pipeline does, without calling
a model. Useful for checking report styling.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := scoring.ParseDomain(domain)
			if !ok {
				return fmt.Errorf("unsupported domain %q", domain)
			}

			var src io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}
			narrative, err := io.ReadAll(src)
			if err != nil {
				return fmt.Errorf("reading narrative: %w", err)
			}

			var buf bytes.Buffer
			if err := renderNarrative(&buf, string(d), string(narrative), format); err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			return os.WriteFile(out, buf.Bytes(), 0644)
		},
	}

	cmd.Flags().StringVar(&domain, "domain", string(scoring.Finance), "risk domain used for the report title")
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "output format: pdf, md or html")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: stdout)")
	return cmd
}

func renderNarrative(w io.Writer, domain, narrative, format string) error {
	switch strings.ToLower(format) {
	case "pdf":
		doc := report.Assemble(report.ReportTitle(domain), narrative)
		return report.NewPDFRenderer(report.DefaultStyles()).Render(w, doc)
	case "md", "markdown":
		return report.WriteMarkdown(w, report.Assemble(report.ReportTitle(domain), narrative))
	case "html":
		return report.RenderHTML(w, narrative)
	default:
		return fmt.Errorf("unknown format %q (want pdf, md or html)", format)
	}
}
