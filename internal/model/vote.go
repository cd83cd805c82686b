package model

import "math"

// Party identifies a major party in the two-party vote share tables
type Party string

const (
	PartyDemocrat   Party = "democrat"
	PartyRepublican Party = "republican"
)

// Winner labels the projected or historical winner of a race
type Winner string

const (
	WinnerD Winner = "D"
	WinnerR Winner = "R"
)

// VoteRecord is one row of the national popular-vote table (long format).
// Immutable once loaded; all downstream tables are derived from copies.
type VoteRecord struct {
	Year      int     `json:"year"`
	Party     Party   `json:"party"`
	Candidate string  `json:"candidate"`
	Pv2p      float64 `json:"pv2p"` // two-party vote share, 0-100
}

// WideVoteRow is the pivoted (one column per party) national vote row.
// A party missing for a year leaves its share as NaN, not an error.
type WideVoteRow struct {
	Year       int     `json:"year"`
	Democrat   float64 `json:"democrat"`
	Republican float64 `json:"republican"`
	Winner     Winner  `json:"winner"`
}

// HasBothParties reports whether both shares are present for the year.
func (r WideVoteRow) HasBothParties() bool {
	return !math.IsNaN(r.Democrat) && !math.IsNaN(r.Republican)
}

// DecideWinner applies the winner rule: R wins ties.
func DecideWinner(democrat, republican float64) Winner {
	if republican >= democrat {
		return WinnerR
	}
	return WinnerD
}
