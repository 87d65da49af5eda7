package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/brunobiangulo/riskmirror"
	"github.com/brunobiangulo/riskmirror/profile"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// batchResult is the outcome of analyzing one profile file.
type batchResult struct {
	File     string
	Analysis *riskmirror.Analysis
	Err      error
}

func newBatchCommand(a *app) *cobra.Command {
	var (
		concurrency int
		domain      string
	)

	cmd := &cobra.Command{
		Use:   "batch <profile-file>...",
		Short: "Analyze many profile files concurrently",
		Long: `Batch analyzes every profile file given. A failure on one file does not
stop the others; the command exits with status 1 when any file failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			results := runBatch(cmd.Context(), eng, profile.NewRegistry(), args, domain, concurrency, a.logger)
			return reportBatch(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", runtime.NumCPU(), "maximum concurrent analyses")
	cmd.Flags().StringVar(&domain, "domain", "", "risk domain for files that do not name one")
	return cmd
}

// runBatch analyzes files with at most concurrency analyses in flight.
// Results are returned in input order.
func runBatch(ctx context.Context, eng riskmirror.Engine, reg *profile.Registry, files []string, domain string, concurrency int, logger *slog.Logger) []batchResult {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]batchResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, file := range files {
		g.Go(func() error {
			results[i] = analyzeFile(gctx, eng, reg, file, domain)
			if err := results[i].Err; err != nil {
				logger.Warn("batch item failed", "file", file, "error", err)
			} else {
				logger.Debug("batch item done", "file", file, "id", results[i].Analysis.ID)
			}
			// Never fail the group: one bad file must not cancel the rest.
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func analyzeFile(ctx context.Context, eng riskmirror.Engine, reg *profile.Registry, file, domain string) batchResult {
	res := batchResult{File: file}
	p, err := reg.ParseFile(ctx, file)
	if err != nil {
		res.Err = err
		return res
	}
	if p.Domain == "" {
		p.Domain = domain
	}
	res.Analysis, res.Err = eng.Analyze(ctx, riskmirror.AnalysisRequest{Domain: p.Domain, Data: p.Data})
	return res
}

func reportBatch(w io.Writer, results []batchResult) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "FAIL  %s: %v\n", r.File, r.Err)
			continue
		}
		fmt.Fprintf(w, "OK    %s: id=%d score=%.1f %s\n", r.File, r.Analysis.ID, r.Analysis.RiskScore, r.Analysis.RiskCategory)
	}
	fmt.Fprintf(w, "%d/%d analyzed\n", len(results)-failed, len(results))
	if failed > 0 {
		return &BatchFailureError{Failed: failed, Total: len(results)}
	}
	return nil
}
