package worker

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/electoralab/votecast/internal/model"
)

// Forecaster runs one forecast for a given weight pair.
type Forecaster interface {
	Forecast(ctx context.Context, weights model.ForecastWeights) (*model.Report, error)
}

// SweepJob is one weight pair to forecast
type SweepJob struct {
	Weights    model.ForecastWeights
	Forecaster Forecaster
}

// Execute runs the forecast for this weight pair
func (j *SweepJob) Execute(ctx context.Context) Result {
	report, err := j.Forecaster.Forecast(ctx, j.Weights)
	return &SweepResult{
		Weights: j.Weights,
		Report:  report,
		Error:   err,
	}
}

// SweepResult is the outcome of one weight pair
type SweepResult struct {
	Weights model.ForecastWeights
	Report  *model.Report
	Error   error
}

// GetError returns the error from the sweep result
func (r *SweepResult) GetError() error {
	return r.Error
}

// SweepProcessor runs forecasts for many weight pairs concurrently.
type SweepProcessor struct {
	forecaster  Forecaster
	concurrency int
}

// NewSweepProcessor creates a new sweep processor
func NewSweepProcessor(forecaster Forecaster, concurrency int) *SweepProcessor {
	return &SweepProcessor{
		forecaster:  forecaster,
		concurrency: concurrency,
	}
}

// ProcessWeights forecasts every weight pair on the pool.
func (s *SweepProcessor) ProcessWeights(ctx context.Context, pairs []model.ForecastWeights) []*SweepResult {
	if len(pairs) == 0 {
		return []*SweepResult{}
	}

	pool := NewPool(ctx, s.concurrency)
	pool.Start()

	for _, pair := range pairs {
		pool.Submit(&SweepJob{
			Weights:    pair,
			Forecaster: s.forecaster,
		})
	}

	results := pool.Wait()

	sweepResults := make([]*SweepResult, len(results))
	for i, result := range results {
		sweepResults[i] = result.(*SweepResult)
	}

	return sweepResults
}

// ProcessFile reads weight pairs from a YAML file and forecasts them all.
func (s *SweepProcessor) ProcessFile(ctx context.Context, path string) ([]*SweepResult, error) {
	pairs, err := ReadWeightsFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}

	return s.ProcessWeights(ctx, pairs), nil
}

type weightsFile struct {
	Weights []model.ForecastWeights `yaml:"weights"`
}

// ReadWeightsFile parses a sweep definition. Duplicate pairs are dropped;
// non-positive weights are rejected since they make the projection
// meaningless rather than merely unusual.
func ReadWeightsFile(path string) ([]model.ForecastWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var parsed weightsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(parsed.Weights) == 0 {
		return nil, fmt.Errorf("no weight pairs in %s", path)
	}

	seen := make(map[model.ForecastWeights]bool)
	var pairs []model.ForecastWeights
	for i, pair := range parsed.Weights {
		if pair.Recent <= 0 || pair.Prior < 0 {
			return nil, fmt.Errorf("weight pair %d: recent must be > 0 and prior >= 0", i+1)
		}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		pairs = append(pairs, pair)
	}

	return pairs, nil
}
