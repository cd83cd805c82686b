// Package aggregate derives summary statistics from the reshaped tables.
package aggregate

import "github.com/electoralab/votecast/internal/model"

// SummarizeByWinner counts races won per party label.
func SummarizeByWinner(rows []model.WideVoteRow) map[model.Winner]int {
	counts := make(map[model.Winner]int)
	for _, row := range rows {
		counts[row.Winner]++
	}
	return counts
}

// Series is one party's vote share over time, in year order.
type Series struct {
	Party model.Party
	Years []int
	Pv2p  []float64
}

// PartySeries extracts per-party time series from wide rows for charting.
// Rows are assumed year-sorted (PivotToWide guarantees it); NaN gaps are
// carried through so the chart shows the gap rather than interpolating.
func PartySeries(rows []model.WideVoteRow) (dem, rep Series) {
	dem = Series{Party: model.PartyDemocrat}
	rep = Series{Party: model.PartyRepublican}
	for _, row := range rows {
		dem.Years = append(dem.Years, row.Year)
		dem.Pv2p = append(dem.Pv2p, row.Democrat)
		rep.Years = append(rep.Years, row.Year)
		rep.Pv2p = append(rep.Pv2p, row.Republican)
	}
	return dem, rep
}
