// Package forecast computes the weighted-average state projection and the
// electoral-vote tally derived from it.
package forecast

import (
	"fmt"
	"sort"

	"github.com/electoralab/votecast/internal/model"
)

// Project computes one ForecastRow per state from the base-year slice of the
// state table. Each lag1 column holds the share from one cycle before the
// base year, so the projection is:
//
//	share = weights.Recent*base + weights.Prior*lag1
//
// States absent from the base-year slice produce no forecast and contribute
// no electoral votes downstream; Signals surfaces them.
func Project(rows []model.StateVoteRow, baseYear int, weights model.ForecastWeights) []model.ForecastRow {
	var forecasts []model.ForecastRow
	for _, row := range rows {
		if row.Year != baseYear {
			continue
		}

		r := weights.Recent*row.RPv2p + weights.Prior*row.RPv2pLag1
		d := weights.Recent*row.DPv2p + weights.Prior*row.DPv2pLag1

		forecasts = append(forecasts, model.ForecastRow{
			State:  row.State,
			Region: row.Region,
			RPv2p:  r,
			DPv2p:  d,
			Margin: r - d,
			Winner: model.DecideWinner(d, r),
		})
	}

	sort.Slice(forecasts, func(i, j int) bool { return forecasts[i].State < forecasts[j].State })
	return forecasts
}

// TallyElectoralVotes joins forecasts to the allocation table on
// (state, year) and sums electors per projected winner. A forecast with no
// matching allocation contributes zero; the Electors field on each matched
// row is filled in place as a side product of the join.
func TallyElectoralVotes(forecasts []model.ForecastRow, allocations []model.ElectoralAllocation, year int) (map[model.Winner]int, []string) {
	electors := make(map[string]int)
	for _, a := range allocations {
		if a.Year == year {
			electors[a.State] = a.Electors
		}
	}

	tally := map[model.Winner]int{
		model.WinnerD: 0,
		model.WinnerR: 0,
	}
	var unallocated []string
	for i := range forecasts {
		n, ok := electors[forecasts[i].State]
		if !ok {
			unallocated = append(unallocated, forecasts[i].State)
			continue
		}
		forecasts[i].Electors = n
		tally[forecasts[i].Winner] += n
	}
	sort.Strings(unallocated)
	return tally, unallocated
}

// Signals reports the silent exclusions around a forecast run: allocated
// states that never got a forecast (missing from the base-year slice) and
// forecast states that never got electors.
func Signals(forecasts []model.ForecastRow, allocations []model.ElectoralAllocation, year int, unallocated []string) []model.Signal {
	forecasted := make(map[string]bool, len(forecasts))
	for _, f := range forecasts {
		forecasted[f.State] = true
	}

	var missingBase []string
	for _, a := range allocations {
		if a.Year == year && !forecasted[a.State] {
			missingBase = append(missingBase, a.State)
		}
	}
	sort.Strings(missingBase)

	var signals []model.Signal
	if len(missingBase) > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalMissingBaseYear,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%d allocated state(s) have no base-year data and were excluded from the forecast", len(missingBase)),
			Data: map[string]interface{}{
				"states": missingBase,
			},
		})
	}
	if len(unallocated) > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalMissingAllocation,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%d forecast state(s) have no %d elector allocation and contribute zero votes", len(unallocated), year),
			Data: map[string]interface{}{
				"states": unallocated,
			},
		})
	}
	return signals
}
