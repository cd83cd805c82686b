// Package validate runs sanity checks over the loaded tables. Checks never
// fail the run; they emit diagnostic signals carried in the report.
package validate

import (
	"fmt"
	"math"
	"sort"

	"github.com/electoralab/votecast/internal/model"
)

// ShareSumTolerance is how far D+R may drift from 100 before a year is
// flagged. Third-party rounding in source tables keeps this loose.
const ShareSumTolerance = 1.0

const expectedElectorTotal = 538

// Checker validates loaded tables and collects signals.
type Checker struct {
	signals []model.Signal
}

// NewChecker creates an empty checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Signals returns everything collected so far.
func (c *Checker) Signals() []model.Signal {
	return c.signals
}

// CheckPopularVote flags years whose two-party shares do not sum near 100.
func (c *Checker) CheckPopularVote(rows []model.WideVoteRow) {
	var offYears []int
	for _, row := range rows {
		if !row.HasBothParties() {
			continue
		}
		if math.Abs(row.Democrat+row.Republican-100) > ShareSumTolerance {
			offYears = append(offYears, row.Year)
		}
	}
	if len(offYears) > 0 {
		sort.Ints(offYears)
		c.add(model.Signal{
			Type:        model.SignalShareSum,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%d year(s) with two-party shares summing off 100", len(offYears)),
			Data: map[string]interface{}{
				"years":     offYears,
				"tolerance": ShareSumTolerance,
			},
		})
	}
}

// CheckStateVotes flags shares outside the 0-100 range, including lag
// columns, since a bad lag silently skews the projection.
func (c *Checker) CheckStateVotes(rows []model.StateVoteRow) {
	bad := make(map[string]bool)
	for _, row := range rows {
		for _, share := range []float64{row.RPv2p, row.DPv2p, row.RPv2pLag1, row.DPv2pLag1} {
			if math.IsNaN(share) || share < 0 || share > 100 {
				bad[fmt.Sprintf("%s/%d", row.State, row.Year)] = true
			}
		}
	}
	if len(bad) > 0 {
		keys := make([]string, 0, len(bad))
		for k := range bad {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		c.add(model.Signal{
			Type:        model.SignalShareOutOfRange,
			Severity:    model.SeverityCritical,
			Description: fmt.Sprintf("%d state-year(s) with vote shares outside 0-100", len(keys)),
			Data: map[string]interface{}{
				"state_years": keys,
			},
		})
	}
}

// CheckAllocations flags non-positive elector counts and a national total
// off 538 for the given year.
func (c *Checker) CheckAllocations(rows []model.ElectoralAllocation, year int) {
	total := 0
	var nonPositive []string
	for _, row := range rows {
		if row.Year != year {
			continue
		}
		total += row.Electors
		if row.Electors <= 0 {
			nonPositive = append(nonPositive, row.State)
		}
	}
	if len(nonPositive) > 0 {
		sort.Strings(nonPositive)
		c.add(model.Signal{
			Type:        model.SignalElectorTotal,
			Severity:    model.SeverityCritical,
			Description: fmt.Sprintf("%d state(s) with non-positive elector counts", len(nonPositive)),
			Data: map[string]interface{}{
				"states": nonPositive,
			},
		})
	}
	if total != expectedElectorTotal {
		c.add(model.Signal{
			Type:        model.SignalElectorTotal,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("elector total for %d is %d, expected %d", year, total, expectedElectorTotal),
			Data: map[string]interface{}{
				"year":     year,
				"total":    total,
				"expected": expectedElectorTotal,
			},
		})
	}
}

func (c *Checker) add(s model.Signal) {
	c.signals = append(c.signals, s)
}
