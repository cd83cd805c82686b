package model

import "time"

// Report is the complete forecast report written as JSON/Markdown.
type Report struct {
	Subject     string          `json:"subject"`
	GeneratedAt time.Time       `json:"generated_at"`
	TargetYear  int             `json:"target_year"`
	BaseYear    int             `json:"base_year"`
	Weights     ForecastWeights `json:"weights"`

	Forecasts []ForecastRow  `json:"forecasts"`
	Tally     map[Winner]int `json:"electoral_tally"`

	Signals []Signal `json:"signals,omitempty"` // data-quality and join diagnostics

	LLM *LLMSummary `json:"llm,omitempty"` // optional narrative, never affects numbers
}

// TotalElectors sums the tallied electoral votes across winners.
func (r *Report) TotalElectors() int {
	total := 0
	for _, n := range r.Tally {
		total += n
	}
	return total
}

// Signal is a diagnostic finding with transparent supporting data.
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies the diagnostic signal
type SignalType string

const (
	SignalShareSum          SignalType = "share_sum"          // D+R far from 100 for a year/state
	SignalShareOutOfRange   SignalType = "share_out_of_range" // share outside 0-100
	SignalMissingPolygon    SignalType = "missing_polygon"    // state row with no polygon match
	SignalOrphanPolygon     SignalType = "orphan_polygon"     // polygon region with no state row
	SignalMissingAllocation SignalType = "missing_allocation" // forecast state with no elector row
	SignalMissingBaseYear   SignalType = "missing_base_year"  // allocated state absent from base slice
	SignalElectorTotal      SignalType = "elector_total"      // national elector sum off 538
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// LLMSummary contains the optional LLM-generated narrative.
// It is generated after the forecast and never feeds back into it.
type LLMSummary struct {
	Enabled      bool     `json:"enabled"`
	Provider     string   `json:"provider,omitempty"`
	Model        string   `json:"model,omitempty"`
	StrictStates bool     `json:"strict_states"` // whether state-mention enforcement was on
	SummaryMD    string   `json:"summary_md,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}
