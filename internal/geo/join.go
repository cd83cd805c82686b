package geo

import (
	"fmt"
	"sort"

	"github.com/electoralab/votecast/internal/model"
)

// JoinStats counts the rows each side of the join could not pair. The join
// itself never fails; these feed the report's diagnostic signals so silent
// drops in the rendered map are at least visible in the output.
type JoinStats struct {
	OrphanRegions  []string // polygon regions with no state row
	UnmappedStates []string // state rows with no polygon vertices
}

// LeftJoin pairs every polygon vertex with the state row matching its region.
// Polygon vertices never drop: an unmatched vertex keeps a nil state. State
// rows without polygons pair with nothing and therefore vanish from the map,
// which is why they are reported in the stats.
func LeftJoin(states []model.StateVoteRow, polygons []model.PolygonPoint) ([]model.JoinedPoint, JoinStats) {
	byRegion := make(map[string]*model.StateVoteRow, len(states))
	for i := range states {
		byRegion[states[i].Region] = &states[i]
	}

	joined := make([]model.JoinedPoint, 0, len(polygons))
	matched := make(map[string]bool, len(states))
	orphans := make(map[string]bool)

	for _, pt := range polygons {
		state := byRegion[pt.Region]
		if state != nil {
			matched[pt.Region] = true
		} else {
			orphans[pt.Region] = true
		}
		joined = append(joined, model.JoinedPoint{Point: pt, State: state})
	}

	stats := JoinStats{}
	for region := range orphans {
		stats.OrphanRegions = append(stats.OrphanRegions, region)
	}
	for _, s := range states {
		if !matched[s.Region] {
			stats.UnmappedStates = append(stats.UnmappedStates, s.State)
		}
	}
	sort.Strings(stats.OrphanRegions)
	sort.Strings(stats.UnmappedStates)
	return joined, stats
}

// Signals converts join stats into report diagnostics.
func (s JoinStats) Signals() []model.Signal {
	var signals []model.Signal
	if len(s.UnmappedStates) > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalMissingPolygon,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%d state(s) have no polygon and will not appear on the map", len(s.UnmappedStates)),
			Data: map[string]interface{}{
				"states": s.UnmappedStates,
			},
		})
	}
	if len(s.OrphanRegions) > 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalOrphanPolygon,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("%d polygon region(s) matched no state row and render unfilled", len(s.OrphanRegions)),
			Data: map[string]interface{}{
				"regions": s.OrphanRegions,
			},
		})
	}
	return signals
}
