package cli

import (
	"path/filepath"
	"testing"

	"github.com/electoralab/votecast/internal/model"
)

func TestWeightSlug(t *testing.T) {
	got := weightSlug(model.ForecastWeights{Recent: 0.75, Prior: 0.25})
	if got != "w0.75-0.25" {
		t.Errorf("expected w0.75-0.25, got %s", got)
	}
}

func TestWeightSlug_DistinguishesNearbyPairs(t *testing.T) {
	// Pairs differing below two decimal places are distinct sweep entries
	// and must not collide on a report file name.
	a := weightSlug(model.ForecastWeights{Recent: 0.505, Prior: 0.495})
	b := weightSlug(model.ForecastWeights{Recent: 0.5051, Prior: 0.4949})
	if a == b {
		t.Errorf("nearby weight pairs share slug %s", a)
	}
}

func TestReportPaths(t *testing.T) {
	jsonPath, mdPath := reportPaths("out", model.ForecastWeights{Recent: 0.6, Prior: 0.4})
	if jsonPath != filepath.Join("out", "w0.6-0.4.json") {
		t.Errorf("unexpected json path %s", jsonPath)
	}
	if mdPath != filepath.Join("out", "w0.6-0.4.md") {
		t.Errorf("unexpected markdown path %s", mdPath)
	}
}
