package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/electoralab/votecast/internal/model"
	"github.com/electoralab/votecast/internal/pipeline"
	"github.com/electoralab/votecast/internal/worker"
)

var (
	sweepConcurrency int
	sweepTimeout     time.Duration
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep <weights.yaml>",
	Short: "Run the forecast across multiple weight pairs",
	Long: `Sweep re-runs the projection for every weight pair in a YAML file,
in parallel, writing one report per pair. Useful for seeing how sensitive
the electoral tally is to the recent/prior weighting.

Weights file format:
  weights:
    - recent: 0.75
      prior: 0.25
    - recent: 0.60
      prior: 0.40

Example:
  votecast sweep weights.yaml
  votecast sweep weights.yaml --concurrency 8 --output-dir ./sweep-out`,
	Args: cobra.ExactArgs(1),
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	addInputFlags(sweepCmd)
	addForecastFlags(sweepCmd)
	addLLMFlags(sweepCmd)

	sweepCmd.Flags().IntVar(&sweepConcurrency, "concurrency", 4, "number of concurrent forecasts")
	sweepCmd.Flags().StringVar(&outDir, "output-dir", "./votecast-sweep", "output directory for reports")
	sweepCmd.Flags().DurationVar(&sweepTimeout, "timeout", 10*time.Minute, "total timeout for the sweep")
	sweepCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parsed-table cache")
	sweepCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runSweep(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Concurrency.SweepWorkers = sweepConcurrency

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Votecast Weight Sweep\n")
	fmt.Fprintf(os.Stderr, "  Weights file: %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", sweepConcurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outDir)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewSweepProcessor(p, sweepConcurrency)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process weights file: %w", err)
	}

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", weightSlug(result.Weights), result.Error)
			continue
		}

		successCount++

		jsonPath, mdPath := reportPaths(outDir, result.Weights)
		renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", weightSlug(result.Weights), err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", weightSlug(result.Weights), err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (R %d / D %d)\n", weightSlug(result.Weights),
			result.Report.Tally[model.WinnerR], result.Report.Tally[model.WinnerD])
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Sweep complete: %d pair(s), %d ok, %d failed\n", len(results), successCount, failureCount)
	fmt.Fprintf(os.Stderr, "  Output: %s\n", outDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
