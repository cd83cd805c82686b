package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/electoralab/votecast/internal/pipeline"
)

var analyzeChart string

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize the national two-party popular vote",
	Long: `Analyze pivots the long-format popular-vote table into one row per
election year, labels each race's winner, counts races won per party,
and renders a vote-share line chart.

Example:
  votecast analyze
  votecast analyze --popvote data/popvote_1948-2020.csv --chart popvote.png`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	addInputFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeChart, "chart", "popvote.png", "line chart output path (empty to skip)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parsed-table cache")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Loading %s...\n", cfg.Inputs.PopularVote)
	}

	result, err := p.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Pivoted %d election year(s)\n", len(result.Rows))
	}

	if analyzeChart != "" {
		if err := p.RenderAnalysisChart(result, analyzeChart); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote chart: %s\n", analyzeChart)
		}
	}

	pipeline.NewRenderer(cfg.Output.IncludeFooter).RenderAnalysisSummary(result)
	return nil
}
