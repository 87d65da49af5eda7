package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/brunobiangulo/riskmirror"
	"github.com/brunobiangulo/riskmirror/profile"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	domain      string
	set         []string
	interactive bool
	out         string
	noPDF       bool
}

func newAnalyzeCommand(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [profile-file]",
		Short: "Analyze one profile and save its PDF report",
		Long: `Analyze reads a profile from a JSON, YAML or XLSX file, from --set
key=value pairs, or interactively with --interactive, then generates the
narrative report and writes the PDF.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var file string
			if len(args) == 1 {
				file = args[0]
			}
			req, err := buildRequest(ctx, file, opts, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			an, err := eng.Analyze(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSummary(out, an)

			if opts.noPDF {
				return nil
			}
			path, err := savePDF(ctx, eng, an, opts.out)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Report:   %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.domain, "domain", "", "risk domain: finance or health (overrides the profile file)")
	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "profile field as key=value (repeatable)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "fill in the profile with an interactive form")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "PDF output path (default: the report's download name)")
	cmd.Flags().BoolVar(&opts.noPDF, "no-pdf", false, "do not write the PDF locally")
	return cmd
}

// buildRequest merges the profile file, interactive answers and --set pairs,
// later sources winning.
func buildRequest(ctx context.Context, file string, opts *analyzeOptions, in io.Reader, out io.Writer) (riskmirror.AnalysisRequest, error) {
	req := riskmirror.AnalysisRequest{Data: map[string]string{}}

	if file != "" {
		p, err := profile.NewRegistry().ParseFile(ctx, file)
		if err != nil {
			return req, err
		}
		req.Domain = p.Domain
		for k, v := range p.Data {
			req.Data[k] = v
		}
	}
	if opts.domain != "" {
		req.Domain = opts.domain
	}

	if opts.interactive {
		p, err := runProfileForm(in, out, req.Domain)
		if err != nil {
			return req, err
		}
		req.Domain = p.Domain
		for k, v := range p.Data {
			req.Data[k] = v
		}
	}

	pairs, err := parseSetFlags(opts.set)
	if err != nil {
		return req, err
	}
	for k, v := range pairs {
		req.Data[k] = v
	}

	if req.Domain == "" {
		return req, fmt.Errorf("no domain given: use --domain, a profile file with a domain field, or --interactive")
	}
	return req, nil
}

func parseSetFlags(set []string) (map[string]string, error) {
	out := make(map[string]string, len(set))
	for _, kv := range set {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", kv)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func printSummary(w io.Writer, a *riskmirror.Analysis) {
	fmt.Fprintf(w, "Analysis: %d (%s, %s)\n", a.ID, a.Domain, a.Name)
	fmt.Fprintf(w, "Score:    %.1f/10 - %s\n", a.RiskScore, a.RiskCategory)
	fmt.Fprintf(w, "Reported: %s/10 - %s\n", a.ExtractedScore, a.ExtractedCategory)
	fmt.Fprintf(w, "Pages:    %d\n", a.PageCount)
}

func savePDF(ctx context.Context, eng riskmirror.Engine, a *riskmirror.Analysis, path string) (string, error) {
	rep, err := eng.Report(ctx, a.ID)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = rep.Name
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, rep.Data, 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
