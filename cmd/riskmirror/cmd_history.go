package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brunobiangulo/riskmirror"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultTableWidth = 100

func newHistoryCommand(a *app) *cobra.Command {
	var (
		domain string
		limit  int
	)

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"ls"},
		Short:   "List stored analyses, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			analyses, err := eng.List(cmd.Context(), riskmirror.WithDomain(domain), riskmirror.WithLimit(limit))
			if err != nil {
				return err
			}
			writeHistory(cmd.OutOrStdout(), analyses, terminalWidth(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "only show this domain")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum rows (0 for all)")
	return cmd
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTableWidth
}

// writeHistory prints one row per analysis. The name column takes whatever
// width the fixed columns leave.
func writeHistory(w io.Writer, analyses []riskmirror.Analysis, width int) {
	if len(analyses) == 0 {
		fmt.Fprintln(w, "No analyses found.")
		return
	}

	const (
		idW, dateW, domainW, scoreW, catW, pagesW = 6, 16, 8, 6, 14, 5
		gaps                                      = 6 * 2
		minName                                   = 8
	)
	nameW := width - (idW + dateW + domainW + scoreW + catW + pagesW + gaps)
	if nameW < minName {
		nameW = minName
	}

	row := func(cols ...string) {
		widths := []int{idW, dateW, domainW, nameW, scoreW, catW, pagesW}
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = padRight(runewidth.Truncate(c, widths[i], "…"), widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	row("ID", "CREATED", "DOMAIN", "NAME", "SCORE", "CATEGORY", "PAGES")
	for _, a := range analyses {
		row(
			fmt.Sprintf("%d", a.ID),
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.Domain,
			a.Name,
			fmt.Sprintf("%.1f", a.RiskScore),
			a.RiskCategory,
			fmt.Sprintf("%d", a.PageCount),
		)
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
