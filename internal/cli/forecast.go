package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/electoralab/votecast/internal/model"
	"github.com/electoralab/votecast/internal/pipeline"
)

var (
	outJSON         string
	outMD           string
	forecastTimeout time.Duration
	skipMaps        bool
)

// forecastCmd represents the forecast command
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project state vote shares and tally electoral votes",
	Long: `Forecast computes a naive per-state projection for the target year:
a weighted average of the base-year result and the prior cycle's result,
per party. It derives each state's margin and winner, joins electoral-vote
allocations, and renders winner and margin choropleth maps.

Rows silently dropped by joins (missing polygons, missing allocations,
missing base-year data) are reported as diagnostics, never hidden.

Example:
  votecast forecast
  votecast forecast --recent-weight 0.6 --prior-weight 0.4
  votecast forecast --json report.json --md report.md --llm`,
	Args: cobra.NoArgs,
	RunE: runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)

	addInputFlags(forecastCmd)
	addForecastFlags(forecastCmd)
	addLLMFlags(forecastCmd)

	forecastCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	forecastCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	forecastCmd.Flags().StringVar(&outDir, "output-dir", "./votecast-out", "output directory for maps")
	forecastCmd.Flags().DurationVar(&forecastTimeout, "timeout", 2*time.Minute, "overall run timeout")
	forecastCmd.Flags().BoolVar(&skipMaps, "no-maps", false, "skip choropleth rendering")
	forecastCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parsed-table cache")
	forecastCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runForecast(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), forecastTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Target year: %d (base %d)\n", cfg.Forecast.TargetYear, cfg.Forecast.BaseYear)
		fmt.Fprintf(os.Stderr, "Weights: %.2f recent / %.2f prior\n", cfg.Forecast.Weights.Recent, cfg.Forecast.Weights.Prior)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.Run(ctx, cfg.Forecast.Weights)
	if err != nil {
		return fmt.Errorf("forecast failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Projected %d state(s)\n", len(result.Report.Forecasts))
		fmt.Fprintf(os.Stderr, "✓ Tallied %d electoral vote(s)\n", result.Report.TotalElectors())
		if result.Report.LLM != nil && result.Report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated narrative using %s/%s\n", result.Report.LLM.Provider, result.Report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if !skipMaps {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		slug := weightSlug(cfg.Forecast.Weights)
		if err := p.RenderMaps(ctx, result, outDir, slug); err != nil {
			return fmt.Errorf("render maps: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote maps to %s\n", outDir)
		}
	}

	if err := p.RenderReport(result.Report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// weightSlug names output files after the weight pair, e.g. "w0.75-0.25".
// Full precision, so nearby pairs in a sweep never collide on a file name.
func weightSlug(w model.ForecastWeights) string {
	return fmt.Sprintf("w%s-%s",
		strconv.FormatFloat(w.Recent, 'f', -1, 64),
		strconv.FormatFloat(w.Prior, 'f', -1, 64))
}

// reportPaths builds the per-run report file names inside dir.
func reportPaths(dir string, w model.ForecastWeights) (jsonPath, mdPath string) {
	slug := weightSlug(w)
	return filepath.Join(dir, slug+".json"), filepath.Join(dir, slug+".md")
}
