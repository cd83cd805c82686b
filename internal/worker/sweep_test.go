package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/electoralab/votecast/internal/model"
)

type mockForecaster struct {
	calls   int32
	failFor model.ForecastWeights
}

func (m *mockForecaster) Forecast(ctx context.Context, weights model.ForecastWeights) (*model.Report, error) {
	atomic.AddInt32(&m.calls, 1)
	if weights == m.failFor {
		return nil, errors.New("forecast failed")
	}
	return &model.Report{Weights: weights}, nil
}

func TestSweepProcessor_ProcessWeights(t *testing.T) {
	forecaster := &mockForecaster{}
	processor := NewSweepProcessor(forecaster, 2)

	pairs := []model.ForecastWeights{
		{Recent: 0.75, Prior: 0.25},
		{Recent: 0.5, Prior: 0.5},
		{Recent: 1.0, Prior: 0.0},
	}

	results := processor.ProcessWeights(context.Background(), pairs)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if n := atomic.LoadInt32(&forecaster.calls); n != 3 {
		t.Errorf("expected 3 forecast calls, got %d", n)
	}
	for _, r := range results {
		if r.Error != nil {
			t.Errorf("pair %+v: unexpected error %v", r.Weights, r.Error)
		}
		if r.Report == nil || r.Report.Weights != r.Weights {
			t.Errorf("pair %+v: report weights not carried through", r.Weights)
		}
	}
}

func TestSweepProcessor_PartialFailure(t *testing.T) {
	bad := model.ForecastWeights{Recent: 0.5, Prior: 0.5}
	forecaster := &mockForecaster{failFor: bad}
	processor := NewSweepProcessor(forecaster, 2)

	results := processor.ProcessWeights(context.Background(), []model.ForecastWeights{
		{Recent: 0.75, Prior: 0.25},
		bad,
	})

	var failures int
	for _, r := range results {
		if r.Error != nil {
			failures++
			if r.Weights != bad {
				t.Errorf("wrong pair failed: %+v", r.Weights)
			}
		}
	}
	if failures != 1 {
		t.Errorf("expected exactly 1 failure, got %d", failures)
	}
}

func TestSweepProcessor_ManyPairs(t *testing.T) {
	// A sweep file may carry far more pairs than the pool has worker and
	// buffer slots; the whole batch must still complete.
	forecaster := &mockForecaster{}
	processor := NewSweepProcessor(forecaster, 4)

	pairs := make([]model.ForecastWeights, 0, 40)
	for i := 0; i < 40; i++ {
		pairs = append(pairs, model.ForecastWeights{
			Recent: 0.50 + float64(i)*0.01,
			Prior:  0.50 - float64(i)*0.01,
		})
	}

	done := make(chan []*SweepResult, 1)
	go func() { done <- processor.ProcessWeights(context.Background(), pairs) }()

	select {
	case results := <-done:
		if len(results) != len(pairs) {
			t.Errorf("expected %d results, got %d", len(pairs), len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("sweep stalled with more pairs than worker slots")
	}
}

type blockingForecaster struct{}

func (blockingForecaster) Forecast(ctx context.Context, weights model.ForecastWeights) (*model.Report, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestSweepProcessor_ContextCancelsForecasts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	processor := NewSweepProcessor(blockingForecaster{}, 2)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	done := make(chan []*SweepResult, 1)
	go func() {
		done <- processor.ProcessWeights(ctx, []model.ForecastWeights{
			{Recent: 0.75, Prior: 0.25},
			{Recent: 0.5, Prior: 0.5},
		})
	}()

	select {
	case results := <-done:
		for _, r := range results {
			if !errors.Is(r.Error, context.Canceled) {
				t.Errorf("pair %+v: expected canceled forecast, got %v", r.Weights, r.Error)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelling the context did not stop in-flight forecasts")
	}
}

func TestSweepProcessor_Empty(t *testing.T) {
	processor := NewSweepProcessor(&mockForecaster{}, 2)
	results := processor.ProcessWeights(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func writeWeights(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadWeightsFile(t *testing.T) {
	path := writeWeights(t, `weights:
  - recent: 0.75
    prior: 0.25
  - recent: 0.5
    prior: 0.5
`)

	pairs, err := ReadWeightsFile(path)
	if err != nil {
		t.Fatalf("ReadWeightsFile: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].Recent != 0.75 || pairs[0].Prior != 0.25 {
		t.Errorf("first pair wrong: %+v", pairs[0])
	}
}

func TestReadWeightsFile_DedupesPairs(t *testing.T) {
	path := writeWeights(t, `weights:
  - recent: 0.75
    prior: 0.25
  - recent: 0.75
    prior: 0.25
`)

	pairs, err := ReadWeightsFile(path)
	if err != nil {
		t.Fatalf("ReadWeightsFile: %v", err)
	}
	if len(pairs) != 1 {
		t.Errorf("expected duplicate pair dropped, got %d pairs", len(pairs))
	}
}

func TestReadWeightsFile_RejectsNonPositiveRecent(t *testing.T) {
	path := writeWeights(t, `weights:
  - recent: 0
    prior: 1.0
`)

	_, err := ReadWeightsFile(path)
	if err == nil {
		t.Fatal("expected error for recent weight of zero")
	}
	if !strings.Contains(err.Error(), "pair 1") {
		t.Errorf("error should name the bad pair, got: %v", err)
	}
}

func TestReadWeightsFile_EmptyList(t *testing.T) {
	path := writeWeights(t, "weights: []\n")
	if _, err := ReadWeightsFile(path); err == nil {
		t.Fatal("expected error for empty weights list")
	}
}

func TestReadWeightsFile_MissingFile(t *testing.T) {
	if _, err := ReadWeightsFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadWeightsFile_BadYAML(t *testing.T) {
	path := writeWeights(t, "weights: [not: valid: yaml\n")
	if _, err := ReadWeightsFile(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
