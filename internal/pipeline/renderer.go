package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/electoralab/votecast/internal/llm"
	"github.com/electoralab/votecast/internal/model"
)

// Renderer writes reports as JSON, Markdown, and a stdout summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a Markdown document.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", report.Subject))
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04 MST")))
	b.WriteString(fmt.Sprintf("Method: `%.2f * pv2p(%d) + %.2f * pv2p(prior cycle)` per state and party.\n\n",
		report.Weights.Recent, report.BaseYear, report.Weights.Prior))

	b.WriteString("## Electoral-Vote Tally\n\n")
	b.WriteString("| Winner | Electoral Votes |\n|---|---|\n")
	for _, w := range []model.Winner{model.WinnerR, model.WinnerD} {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", w, report.Tally[w]))
	}
	b.WriteString(fmt.Sprintf("| total | %d |\n\n", report.TotalElectors()))

	b.WriteString("## State Projections\n\n")
	b.WriteString("| State | R pv2p | D pv2p | Margin (R-D) | Winner | Electors |\n|---|---|---|---|---|---|\n")
	for _, f := range report.Forecasts {
		b.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %+.2f | %s | %d |\n",
			f.State, f.RPv2p, f.DPv2p, f.Margin, f.Winner, f.Electors))
	}
	b.WriteString("\n")

	if len(report.Signals) > 0 {
		b.WriteString("## Diagnostics\n\n")
		for _, s := range report.Signals {
			b.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", s.Type, s.Severity, s.Description))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString("Naive two-term weighted average; no polling, no uncertainty. ")
		b.WriteString("Generated by votecast.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderLLMMarkdown writes the standalone narrative document.
func (r *Renderer) RenderLLMMarkdown(markdown, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("write narrative: %w", err)
	}
	return nil
}

// RenderSummary prints the forecast summary to stdout.
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\n%s\n", report.Subject)
	fmt.Printf("Weights: %.2f recent / %.2f prior\n\n", report.Weights.Recent, report.Weights.Prior)
	fmt.Printf("Electoral votes:  R %d  D %d  (of %d tallied)\n",
		report.Tally[model.WinnerR], report.Tally[model.WinnerD], report.TotalElectors())

	states := map[model.Winner]int{}
	for _, f := range report.Forecasts {
		states[f.Winner]++
	}
	fmt.Printf("States projected: R %d  D %d\n", states[model.WinnerR], states[model.WinnerD])

	if len(report.Signals) > 0 {
		fmt.Printf("\nDiagnostics:\n")
		for _, s := range report.Signals {
			fmt.Printf("  [%s] %s\n", s.Severity, s.Description)
		}
	}
	fmt.Println()
}

// RenderAnalysisSummary prints the popular-vote analysis to stdout.
func (r *Renderer) RenderAnalysisSummary(result *AnalyzeResult) {
	fmt.Printf("\nNational two-party popular vote, %d race(s)\n\n", len(result.Rows))

	winners := make([]model.Winner, 0, len(result.Counts))
	for w := range result.Counts {
		winners = append(winners, w)
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i] < winners[j] })
	for _, w := range winners {
		fmt.Printf("  %s wins: %d\n", w, result.Counts[w])
	}

	if len(result.Signals) > 0 {
		fmt.Printf("\nDiagnostics:\n")
		for _, s := range result.Signals {
			fmt.Printf("  [%s] %s\n", s.Severity, s.Description)
		}
	}
	fmt.Println()
}

// RenderReport writes the report to every configured output.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), llmPath); err != nil {
			fmt.Printf("Warning: Failed to write narrative: %v\n", err)
		} else if verbose {
			fmt.Printf("✓ Wrote Narrative: %s\n", llmPath)
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}
