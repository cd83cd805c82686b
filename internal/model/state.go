package model

import "strings"

// StateVoteRow is one row of the state-level wide vote-share table.
// Lag fields hold the same state's shares from one electoral cycle prior.
type StateVoteRow struct {
	Year      int     `json:"year"`
	State     string  `json:"state"`
	Region    string  `json:"region"` // lowercased state name, join key to polygons
	RPv2p     float64 `json:"r_pv2p"`
	DPv2p     float64 `json:"d_pv2p"`
	RPv2pLag1 float64 `json:"r_pv2p_lag1"`
	DPv2pLag1 float64 `json:"d_pv2p_lag1"`
}

// RegionKey normalizes a state name into the polygon join key.
func RegionKey(state string) string {
	return strings.ToLower(strings.TrimSpace(state))
}

// ElectoralAllocation is the electoral-college vote count for a state and cycle.
type ElectoralAllocation struct {
	State    string `json:"state"`
	Year     int    `json:"year"`
	Electors int    `json:"electors"`
}

// ForecastWeights are the linear-combination weights applied to the base
// election and the one-cycle-lagged election.
type ForecastWeights struct {
	Recent float64 `json:"recent" yaml:"recent"`
	Prior  float64 `json:"prior" yaml:"prior"`
}

// DefaultForecastWeights returns the standard 0.75/0.25 weighting.
func DefaultForecastWeights() ForecastWeights {
	return ForecastWeights{Recent: 0.75, Prior: 0.25}
}

// ForecastRow is one state's projected vote shares for the target year.
type ForecastRow struct {
	State    string  `json:"state"`
	Region   string  `json:"region"`
	RPv2p    float64 `json:"r_pv2p_proj"`
	DPv2p    float64 `json:"d_pv2p_proj"`
	Margin   float64 `json:"pv2p_margin"` // R minus D
	Winner   Winner  `json:"winner"`
	Electors int     `json:"electors"` // 0 until joined to an allocation row
}
