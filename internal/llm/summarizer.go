package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/electoralab/votecast/internal/model"
)

// Summarizer generates the optional narrative for a forecast report. The
// narrative is produced after the forecast and never feeds back into it.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer for the configured provider. A blank
// provider yields a disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// GenerateSummary produces the narrative for a report. In strict mode the
// text is rejected if it mentions any known state outside the forecast.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	allowed := make([]string, 0, len(report.Forecasts))
	for _, f := range report.Forecasts {
		allowed = append(allowed, f.State)
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:        report,
		AllowedStates: allowed,
		MaxTokens:     s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.provider.Name(), err)
	}

	summary := &model.LLMSummary{
		Enabled:      true,
		Provider:     s.provider.Name(),
		Model:        resp.Model,
		StrictStates: s.config.StrictStates,
		SummaryMD:    resp.Summary,
	}

	if s.config.StrictStates {
		if leaked := FindStateLeaks(resp.Summary, allowed); len(leaked) > 0 {
			return nil, fmt.Errorf("STATE LEAK: narrative mentions states outside the forecast: %s", strings.Join(leaked, ", "))
		}
	}

	return summary, nil
}

// FindStateLeaks returns every known U.S. state mentioned in text that is
// not in the allowlist. Matching is case-insensitive on full state names at
// word boundaries; longer names consume their text first so "west virginia"
// never registers a "virginia" mention and "arkansas" never a "kansas" one.
func FindStateLeaks(text string, allowed []string) []string {
	lower := strings.ToLower(text)
	allowedSet := make(map[string]bool, len(allowed))
	for _, s := range allowed {
		allowedSet[strings.ToLower(s)] = true
	}

	states := make([]string, len(usStates))
	copy(states, usStates)
	sort.Slice(states, func(i, j int) bool { return len(states[i]) > len(states[j]) })

	var leaked []string
	for _, state := range states {
		if !containsWord(lower, state) {
			continue
		}
		lower = strings.ReplaceAll(lower, state, "")
		if !allowedSet[state] {
			leaked = append(leaked, state)
		}
	}
	sort.Strings(leaked)
	return leaked
}

func containsWord(text, word string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		i += from
		before := i == 0 || !isLetter(text[i-1])
		afterIdx := i + len(word)
		after := afterIdx >= len(text) || !isLetter(text[afterIdx])
		if before && after {
			return true
		}
		from = i + 1
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// RenderSeparateMarkdown renders the narrative as a standalone Markdown
// document, clearly separated from the numeric report.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	var b strings.Builder
	b.WriteString("# Forecast Narrative (LLM-generated)\n\n")
	b.WriteString(fmt.Sprintf("> Generated by %s/%s. Narrative only; the numeric forecast is authoritative.\n\n", summary.Provider, summary.Model))
	b.WriteString(summary.SummaryMD)
	b.WriteString("\n")
	for _, w := range summary.Warnings {
		b.WriteString(fmt.Sprintf("\n**Warning:** %s\n", w))
	}
	return b.String()
}

// usStates is the mention-detection vocabulary: full state names plus DC,
// lowercased. "washington" intentionally also matches mentions of DC text.
var usStates = []string{
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado",
	"connecticut", "delaware", "district of columbia", "florida", "georgia",
	"hawaii", "idaho", "illinois", "indiana", "iowa", "kansas", "kentucky",
	"louisiana", "maine", "maryland", "massachusetts", "michigan",
	"minnesota", "mississippi", "missouri", "montana", "nebraska", "nevada",
	"new hampshire", "new jersey", "new mexico", "new york",
	"north carolina", "north dakota", "ohio", "oklahoma", "oregon",
	"pennsylvania", "rhode island", "south carolina", "south dakota",
	"tennessee", "texas", "utah", "vermont", "virginia", "washington",
	"west virginia", "wisconsin", "wyoming",
}
