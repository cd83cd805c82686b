package render

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/electoralab/votecast/internal/aggregate"
	"github.com/electoralab/votecast/internal/model"
)

func TestPartyColor(t *testing.T) {
	if PartyColor(model.WinnerR) != repRed {
		t.Error("R must map to the republican red")
	}
	if PartyColor(model.WinnerD) != demBlue {
		t.Error("D must map to the democrat blue")
	}
}

func TestMarginColor(t *testing.T) {
	if got := MarginColor(0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("even margin must be white, got %v", got)
	}

	rSide := MarginColor(10).(color.RGBA)
	if rSide.R != 255 || rSide.G >= 255 {
		t.Errorf("positive margin must lean red, got %v", rSide)
	}

	dSide := MarginColor(-10).(color.RGBA)
	if dSide.B != 255 || dSide.G >= 255 {
		t.Errorf("negative margin must lean blue, got %v", dSide)
	}

	// Saturation caps at 20 points.
	if MarginColor(20) != MarginColor(45) {
		t.Error("scale must saturate past the 20-point margin")
	}

	// Deeper margins are darker than shallow ones.
	shallow := MarginColor(2).(color.RGBA)
	deep := MarginColor(18).(color.RGBA)
	if deep.G >= shallow.G {
		t.Errorf("deeper margin should fade less: %v vs %v", deep, shallow)
	}
}

func TestWinnerFill(t *testing.T) {
	fill := WinnerFill([]model.ForecastRow{
		{State: "Ohio", Region: "ohio", Winner: model.WinnerR},
		{State: "Vermont", Region: "vermont", Winner: model.WinnerD},
	})

	if fill("ohio", nil) != repRed {
		t.Error("ohio must fill red")
	}
	if fill("vermont", nil) != demBlue {
		t.Error("vermont must fill blue")
	}
	if fill("nullregion", nil) != noData {
		t.Error("unknown region must fill with the no-data color")
	}
}

func TestMarginFill(t *testing.T) {
	fill := MarginFill([]model.ForecastRow{
		{State: "Evenland", Region: "evenland", Margin: 0},
	})

	if fill("evenland", nil) != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Error("zero margin must fill white")
	}
	if fill("nullregion", nil) != noData {
		t.Error("unknown region must fill with the no-data color")
	}
}

func TestPopularVoteChart_WritesFile(t *testing.T) {
	dem := aggregate.Series{
		Party: model.PartyDemocrat,
		Years: []int{2012, 2016, 2020},
		Pv2p:  []float64{52.0, 51.1, 52.3},
	}
	rep := aggregate.Series{
		Party: model.PartyRepublican,
		Years: []int{2012, 2016, 2020},
		Pv2p:  []float64{48.0, 48.9, 47.7},
	}

	path := filepath.Join(t.TempDir(), "popvote.png")
	if err := PopularVoteChart(dem, rep, path, 10, 6); err != nil {
		t.Fatalf("PopularVoteChart: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("chart file is empty")
	}
}

func TestPopularVoteChart_SkipsGaps(t *testing.T) {
	// A NaN gap must not break rendering.
	dem := aggregate.Series{Party: model.PartyDemocrat, Years: []int{1912, 1916}, Pv2p: []float64{64.4, 51.6}}
	rep := aggregate.Series{Party: model.PartyRepublican, Years: []int{1912, 1916}, Pv2p: []float64{math.NaN(), 48.4}}

	path := filepath.Join(t.TempDir(), "gaps.png")
	if err := PopularVoteChart(dem, rep, path, 10, 6); err != nil {
		t.Fatalf("PopularVoteChart with gaps: %v", err)
	}
}

func TestSeriesXYs_DropsNaN(t *testing.T) {
	s := aggregate.Series{
		Years: []int{2012, 2016, 2020},
		Pv2p:  []float64{52.0, math.NaN(), 52.3},
	}

	xys := seriesXYs(s)
	if len(xys) != 2 {
		t.Fatalf("expected 2 points after dropping NaN, got %d", len(xys))
	}
	if xys[0].X != 2012 || xys[1].X != 2020 {
		t.Errorf("wrong years kept: %v", xys)
	}
}

func TestChoropleth_WritesFile(t *testing.T) {
	ohio := model.StateVoteRow{Year: 2020, State: "Ohio", Region: "ohio", RPv2p: 53, DPv2p: 47}
	joined := []model.JoinedPoint{
		{Point: model.PolygonPoint{Region: "ohio", Long: -84.8, Lat: 41.7, Group: 1}, State: &ohio},
		{Point: model.PolygonPoint{Region: "ohio", Long: -80.5, Lat: 41.7, Group: 1}, State: &ohio},
		{Point: model.PolygonPoint{Region: "ohio", Long: -80.5, Lat: 38.4, Group: 1}, State: &ohio},
		{Point: model.PolygonPoint{Region: "nullregion", Long: -100, Lat: 40, Group: 2}, State: nil},
		{Point: model.PolygonPoint{Region: "nullregion", Long: -99, Lat: 40, Group: 2}, State: nil},
		{Point: model.PolygonPoint{Region: "nullregion", Long: -99, Lat: 41, Group: 2}, State: nil},
	}

	fill := WinnerFill([]model.ForecastRow{
		{State: "Ohio", Region: "ohio", Winner: model.WinnerR},
	})

	path := filepath.Join(t.TempDir(), "winners.png")
	if err := Choropleth(joined, fill, "Projected Winner", path, 10, 6); err != nil {
		t.Fatalf("Choropleth: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("map file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("map file is empty")
	}
}
