// Package render draws the line chart and choropleth maps. Charts are pure
// sinks: nothing downstream reads them back.
package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/electoralab/votecast/internal/aggregate"
	"github.com/electoralab/votecast/internal/model"
)

var (
	demBlue = color.RGBA{R: 36, G: 73, B: 153, A: 255}
	repRed  = color.RGBA{R: 190, G: 33, B: 40, A: 255}
	noData  = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	mapLine = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// PopularVoteChart renders both parties' national vote share over time.
// NaN gaps (years missing a party) are skipped rather than drawn as zero.
func PopularVoteChart(dem, rep aggregate.Series, path string, width, height float64) error {
	p := plot.New()
	p.Title.Text = "National Two-Party Vote Share"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "pv2p (%)"

	demLine, err := plotter.NewLine(seriesXYs(dem))
	if err != nil {
		return fmt.Errorf("democrat line: %w", err)
	}
	demLine.Color = demBlue
	demLine.Width = vg.Points(2)

	repLine, err := plotter.NewLine(seriesXYs(rep))
	if err != nil {
		return fmt.Errorf("republican line: %w", err)
	}
	repLine.Color = repRed
	repLine.Width = vg.Points(2)

	p.Add(demLine, repLine, plotter.NewGrid())
	p.Legend.Add("Democrat", demLine)
	p.Legend.Add("Republican", repLine)
	p.Legend.Top = true

	if err := p.Save(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// FillFunc chooses the fill color for a region; state is nil when the
// polygon matched no state row.
type FillFunc func(region string, state *model.StateVoteRow) color.Color

// Choropleth renders joined polygon vertices as filled state shapes.
// Unmatched polygons render in the no-data color and never fail the plot.
func Choropleth(joined []model.JoinedPoint, fill FillFunc, title, path string, width, height float64) error {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()

	type ringKey struct {
		region string
		group  int
	}
	rings := make(map[ringKey]plotter.XYs)
	states := make(map[ringKey]*model.StateVoteRow)
	var order []ringKey

	for _, jp := range joined {
		key := ringKey{region: jp.Point.Region, group: jp.Point.Group}
		if _, seen := rings[key]; !seen {
			order = append(order, key)
			states[key] = jp.State
		}
		rings[key] = append(rings[key], plotter.XY{X: jp.Point.Long, Y: jp.Point.Lat})
	}

	for _, key := range order {
		poly, err := plotter.NewPolygon(rings[key])
		if err != nil {
			return fmt.Errorf("polygon %s/%d: %w", key.region, key.group, err)
		}
		poly.Color = fill(key.region, states[key])
		poly.LineStyle.Color = mapLine
		poly.LineStyle.Width = vg.Points(0.5)
		p.Add(poly)
	}

	if err := p.Save(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, path); err != nil {
		return fmt.Errorf("save map: %w", err)
	}
	return nil
}

// WinnerFill colors regions by the projected winner from forecasts.
func WinnerFill(forecasts []model.ForecastRow) FillFunc {
	byRegion := indexForecasts(forecasts)
	return func(region string, _ *model.StateVoteRow) color.Color {
		f, ok := byRegion[region]
		if !ok {
			return noData
		}
		return PartyColor(f.Winner)
	}
}

// MarginFill colors regions on a diverging scale by forecast margin.
func MarginFill(forecasts []model.ForecastRow) FillFunc {
	byRegion := indexForecasts(forecasts)
	return func(region string, _ *model.StateVoteRow) color.Color {
		f, ok := byRegion[region]
		if !ok {
			return noData
		}
		return MarginColor(f.Margin)
	}
}

// PartyColor maps a winner label to its party color.
func PartyColor(w model.Winner) color.Color {
	if w == model.WinnerR {
		return repRed
	}
	return demBlue
}

// MarginColor maps an R-minus-D margin to a diverging red/blue scale.
// Saturation maxes out at a 20-point margin; a dead-even state is white.
func MarginColor(margin float64) color.Color {
	const maxMargin = 20.0
	t := math.Abs(margin) / maxMargin
	if t > 1 {
		t = 1
	}
	fade := uint8(255 - t*200)
	if margin > 0 {
		return color.RGBA{R: 255, G: fade, B: fade, A: 255}
	}
	if margin < 0 {
		return color.RGBA{R: fade, G: fade, B: 255, A: 255}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}

func indexForecasts(forecasts []model.ForecastRow) map[string]model.ForecastRow {
	byRegion := make(map[string]model.ForecastRow, len(forecasts))
	for _, f := range forecasts {
		byRegion[f.Region] = f
	}
	return byRegion
}

func seriesXYs(s aggregate.Series) plotter.XYs {
	xys := make(plotter.XYs, 0, len(s.Years))
	for i, year := range s.Years {
		if math.IsNaN(s.Pv2p[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(year), Y: s.Pv2p[i]})
	}
	return xys
}
