// Package reshape turns the long-format popular-vote table into one wide
// row per election year and labels each race's winner.
package reshape

import (
	"math"
	"sort"

	"github.com/electoralab/votecast/internal/model"
)

// PivotToWide groups vote records by year and spreads parties into columns.
// A year missing one party keeps NaN in that column rather than failing.
// Output is sorted by year ascending.
func PivotToWide(records []model.VoteRecord) []model.WideVoteRow {
	byYear := make(map[int]*model.WideVoteRow)

	for _, rec := range records {
		row, ok := byYear[rec.Year]
		if !ok {
			row = &model.WideVoteRow{
				Year:       rec.Year,
				Democrat:   math.NaN(),
				Republican: math.NaN(),
			}
			byYear[rec.Year] = row
		}
		switch rec.Party {
		case model.PartyDemocrat:
			row.Democrat = rec.Pv2p
		case model.PartyRepublican:
			row.Republican = rec.Pv2p
		}
	}

	rows := make([]model.WideVoteRow, 0, len(byYear))
	for _, row := range byYear {
		rows = append(rows, LabelWinner(*row))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	return rows
}

// LabelWinner sets the winner label on a wide row. The rule is total and
// deterministic: R wins ties. NaN shares compare false, so a year with a
// missing column falls through to D; the comparison is applied literally
// rather than special-casing missing data.
func LabelWinner(row model.WideVoteRow) model.WideVoteRow {
	row.Winner = model.DecideWinner(row.Democrat, row.Republican)
	return row
}
