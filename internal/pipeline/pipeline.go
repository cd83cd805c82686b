package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/electoralab/votecast/internal/aggregate"
	"github.com/electoralab/votecast/internal/cache"
	"github.com/electoralab/votecast/internal/forecast"
	"github.com/electoralab/votecast/internal/geo"
	"github.com/electoralab/votecast/internal/llm"
	"github.com/electoralab/votecast/internal/load"
	"github.com/electoralab/votecast/internal/model"
	"github.com/electoralab/votecast/internal/render"
	"github.com/electoralab/votecast/internal/reshape"
	"github.com/electoralab/votecast/internal/validate"
	"github.com/electoralab/votecast/internal/worker"
)

// Pipeline orchestrates load, validate, forecast, join, and render. All
// stages are pure transformations over the loaded tables; re-running over
// identical inputs yields identical reports.
type Pipeline struct {
	loader     *load.Loader
	polygons   geo.PolygonProvider
	renderer   *Renderer
	summarizer *llm.Summarizer // nil when disabled
	limiter    *worker.Limiter
	config     *model.Config
}

// NewPipeline creates a new pipeline from configuration.
func NewPipeline(cfg *model.Config) *Pipeline {
	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Printf("Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		loader:     load.NewLoader(c, cfg.Cache.DiskTTL),
		polygons:   geo.NewCSVProvider(cfg.Inputs.Polygons),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		limiter:    worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		config:     cfg,
	}
}

// AnalyzeResult holds the national popular-vote analysis.
type AnalyzeResult struct {
	Rows    []model.WideVoteRow
	Counts  map[model.Winner]int
	Signals []model.Signal
}

// Analyze loads the popular-vote table, pivots it wide, labels winners,
// and counts races won per party.
func (p *Pipeline) Analyze(ctx context.Context) (*AnalyzeResult, error) {
	records, err := p.loader.PopularVote(p.config.Inputs.PopularVote)
	if err != nil {
		return nil, fmt.Errorf("load popular vote: %w", err)
	}

	rows := reshape.PivotToWide(records)

	checker := validate.NewChecker()
	checker.CheckPopularVote(rows)

	return &AnalyzeResult{
		Rows:    rows,
		Counts:  aggregate.SummarizeByWinner(rows),
		Signals: checker.Signals(),
	}, nil
}

// RenderAnalysisChart writes the national vote-share line chart.
func (p *Pipeline) RenderAnalysisChart(result *AnalyzeResult, path string) error {
	dem, rep := aggregate.PartySeries(result.Rows)
	return render.PopularVoteChart(dem, rep, path, p.config.Output.ChartWidth, p.config.Output.ChartHeight)
}

// ForecastResult carries the report plus the joined polygon vertices the
// choropleths are drawn from.
type ForecastResult struct {
	Report *model.Report
	Joined []model.JoinedPoint
}

// Run executes the full forecast: load all tables, validate, project the
// target year, tally electors, join geography, and (optionally) generate
// the LLM narrative. Join misses never fail the run; they become Signals.
func (p *Pipeline) Run(ctx context.Context, weights model.ForecastWeights) (*ForecastResult, error) {
	states, err := p.loader.StateVotes(p.config.Inputs.StateVotes)
	if err != nil {
		return nil, fmt.Errorf("load state votes: %w", err)
	}
	allocations, err := p.loader.Allocations(p.config.Inputs.Allocations)
	if err != nil {
		return nil, fmt.Errorf("load allocations: %w", err)
	}
	polygons, err := p.polygons.Polygons()
	if err != nil {
		return nil, fmt.Errorf("load polygons: %w", err)
	}

	targetYear := p.config.Forecast.TargetYear
	baseYear := p.config.Forecast.BaseYear

	checker := validate.NewChecker()
	checker.CheckStateVotes(states)
	checker.CheckAllocations(allocations, targetYear)

	forecasts := forecast.Project(states, baseYear, weights)
	tally, unallocated := forecast.TallyElectoralVotes(forecasts, allocations, targetYear)

	baseSlice := make([]model.StateVoteRow, 0, len(forecasts))
	for _, s := range states {
		if s.Year == baseYear {
			baseSlice = append(baseSlice, s)
		}
	}
	joined, joinStats := geo.LeftJoin(baseSlice, polygons)

	signals := checker.Signals()
	signals = append(signals, forecast.Signals(forecasts, allocations, targetYear, unallocated)...)
	signals = append(signals, joinStats.Signals()...)

	report := &model.Report{
		Subject:     fmt.Sprintf("%d electoral-college projection", targetYear),
		GeneratedAt: time.Now().UTC(),
		TargetYear:  targetYear,
		BaseYear:    baseYear,
		Weights:     weights,
		Forecasts:   forecasts,
		Tally:       tally,
		Signals:     signals,
	}

	// Narrative comes last and never feeds back into the numbers
	if p.summarizer.IsEnabled() {
		if err := p.limiter.Wait(ctx, p.config.LLM.Provider); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			fmt.Printf("Warning: LLM summary generation failed: %v\n", err)
		} else if summary != nil {
			report.LLM = summary
		}
	}

	return &ForecastResult{Report: report, Joined: joined}, nil
}

// Forecast satisfies worker.Forecaster for sweep runs.
func (p *Pipeline) Forecast(ctx context.Context, weights model.ForecastWeights) (*model.Report, error) {
	result, err := p.Run(ctx, weights)
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}

// RenderMaps draws the winner and margin choropleths on the render pool.
func (p *Pipeline) RenderMaps(ctx context.Context, result *ForecastResult, outDir, slug string) error {
	w, h := p.config.Output.ChartWidth, p.config.Output.ChartHeight
	forecasts := result.Report.Forecasts

	jobs := []worker.Job{
		worker.JobFunc(func(ctx context.Context) worker.Result {
			err := render.Choropleth(result.Joined, render.WinnerFill(forecasts),
				fmt.Sprintf("Projected Winner by State (%d)", result.Report.TargetYear),
				filepath.Join(outDir, slug+"_winner_map.png"), w, h)
			return chartResult{err: err}
		}),
		worker.JobFunc(func(ctx context.Context) worker.Result {
			err := render.Choropleth(result.Joined, render.MarginFill(forecasts),
				fmt.Sprintf("Projected Two-Party Margin (%d)", result.Report.TargetYear),
				filepath.Join(outDir, slug+"_margin_map.png"), w, h)
			return chartResult{err: err}
		}),
	}

	pool := worker.NewPool(ctx, p.config.Concurrency.RenderWorkers)
	pool.Start()
	for _, job := range jobs {
		pool.Submit(job)
	}
	for _, res := range pool.Wait() {
		if err := res.GetError(); err != nil {
			return fmt.Errorf("render map: %w", err)
		}
	}
	return nil
}

type chartResult struct {
	err error
}

func (r chartResult) GetError() error { return r.err }
