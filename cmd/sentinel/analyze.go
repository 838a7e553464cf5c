package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"ReviewSentinel/internal/model"
	"ReviewSentinel/internal/notifier"
)

func analyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <product-url>...",
		Short: "Full analysis: up to five review pages plus trusted sellers",
		Long: `Analyze one or more products. Several URLs run as a batch and end with a
summary table. Trusted alternative sellers are searched when the fake score is
above analysis.alternatives_threshold.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, model.ModeFull)
		},
	}
}

func quickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quick <product-url>",
		Short: "Quick analysis of the first review pages, without seller search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, model.ModeQuick)
		},
	}
}

type batchResult struct {
	URL    string        `json:"url"`
	Report *model.Report `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`

	err error
}

// analyzer is the part of detector.Detector the analyze commands drive.
type analyzer interface {
	Analyze(ctx context.Context, productURL string, mode model.AnalysisMode) (*model.Report, error)
}

func runAnalyze(cmd *cobra.Command, urls []string, mode model.AnalysisMode) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	return analyzeBatch(cmd.Context(), a.detector, urls, mode, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// analyzeBatch analyzes urls in order. A single failing URL returns its own
// error so callers can match detector sentinels.
func analyzeBatch(ctx context.Context, an analyzer, urls []string, mode model.AnalysisMode, out, errOut io.Writer) error {
	results := make([]batchResult, 0, len(urls))
	failed := 0

	for i, u := range urls {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if len(urls) > 1 && !jsonOutput {
			fmt.Fprintf(out, "[%d/%d] %s\n", i+1, len(urls), u)
		}
		rep, err := an.Analyze(ctx, u, mode)
		if err != nil {
			failed++
			results = append(results, batchResult{URL: u, Error: err.Error(), err: err})
			if len(urls) > 1 && !jsonOutput {
				fmt.Fprintf(errOut, "%s: %v\n", u, err)
			}
			continue
		}
		results = append(results, batchResult{URL: u, Report: rep})
		if !jsonOutput {
			fmt.Fprintln(out, notifier.FormatReport(rep))
			fmt.Fprintln(out)
		}
	}

	if jsonOutput {
		if len(urls) == 1 && results[0].Report != nil {
			if err := writeJSON(out, results[0].Report); err != nil {
				return err
			}
		} else if err := writeJSON(out, results); err != nil {
			return err
		}
	} else if len(urls) > 1 {
		renderBatchSummary(out, results)
	}

	switch {
	case failed == 0:
		return nil
	case len(urls) == 1:
		return results[0].err
	default:
		return fmt.Errorf("%d of %d analyses failed", failed, len(urls))
	}
}

func renderBatchSummary(w io.Writer, results []batchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Batch Summary")
	t.AppendHeader(table.Row{"#", "Product", "Score", "Risk", "Reviews"})
	for i, r := range results {
		if r.Report == nil {
			t.AppendRow(table.Row{i + 1, r.URL, "-", "ERROR", r.Error})
			continue
		}
		t.AppendRow(table.Row{i + 1, r.Report.Product.Name, r.Report.Score.Score, string(r.Report.Score.Risk), r.Report.ReviewCount})
	}
	t.Render()
}
