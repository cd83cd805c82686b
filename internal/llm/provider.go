package llm

import (
	"context"
	"fmt"
	"sort"

	"github.com/electoralab/votecast/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative summary of a forecast report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the forecast report to narrate
	Report model.Report

	// AllowedStates is the STRICT allowlist of states the narrative may
	// discuss - everything the forecast actually covers, nothing else
	AllowedStates []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated narrative text
	Summary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// StrictStates enforces the state allowlist (should always be true)
	StrictStates bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:     "", // Disabled by default
		Model:        "",
		Timeout:      30,
		StrictStates: true,
		MaxTokens:    1000,
	}
}

// BuildPrompt constructs the default summarization prompt. The narrative
// must stay inside the forecast: only allowed states, only reported numbers,
// and no claims about what will actually happen.
func BuildPrompt(report model.Report, allowedStates []string) string {
	prompt := fmt.Sprintf(`You are summarizing a naive electoral-college projection. It is a weighted average of two prior elections, NOT a prediction with uncertainty bounds.

CRITICAL RULES:
1. You may ONLY discuss states from this list:
%s

2. DO NOT speculate about states outside the list or about turnout, polling, or events.
3. Quote margins and electoral-vote totals exactly as given below.
4. Describe the projection method honestly: "a %.2f/%.2f weighted average of the %d and prior-cycle results".
5. Never present the projection as a prediction of the actual outcome.

Projection:
- Target year: %d
- Electoral votes: R %d, D %d
- States projected: %d
`, joinStates(allowedStates), report.Weights.Recent, report.Weights.Prior, report.BaseYear,
		report.TargetYear, report.Tally[model.WinnerR], report.Tally[model.WinnerD], len(report.Forecasts))

	closest := closestStates(report.Forecasts, 3)
	if len(closest) > 0 {
		prompt += "\nClosest margins (R minus D):\n"
		for _, f := range closest {
			prompt += fmt.Sprintf("- %s: %+.2f (%s)\n", f.State, f.Margin, f.Winner)
		}
	}

	for i, signal := range report.Signals {
		if i == 0 {
			prompt += "\nData caveats:\n"
		}
		if i >= 3 {
			break
		}
		prompt += fmt.Sprintf("- %s: %s\n", signal.Type, signal.Description)
	}

	prompt += "\nProvide a 3-4 sentence summary of the projection and its closest states."

	return prompt
}

func closestStates(forecasts []model.ForecastRow, n int) []model.ForecastRow {
	sorted := make([]model.ForecastRow, len(forecasts))
	copy(sorted, forecasts)
	sort.Slice(sorted, func(i, j int) bool {
		return abs(sorted[i].Margin) < abs(sorted[j].Margin)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func joinStates(states []string) string {
	if len(states) == 0 {
		return "(no states projected)"
	}
	result := ""
	for i, state := range states {
		if i >= 60 { // Bound the prompt; a national run has at most 51
			result += fmt.Sprintf("\n... and %d more", len(states)-60)
			break
		}
		result += fmt.Sprintf("\n- %s", state)
	}
	return result
}
