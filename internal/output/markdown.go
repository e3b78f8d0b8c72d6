// internal/output/markdown.go
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dsablic/repomaint/internal/model"
)

// WriteMarkdown writes the report as GitHub-flavored markdown to w.
func WriteMarkdown(w io.Writer, report model.Report) error {
	fmt.Fprintf(w, "# Maintainability Report: %s\n\n", report.FullName)
	if report.Description != "" {
		fmt.Fprintf(w, "%s\n\n", report.Description)
	}
	if report.URL != "" {
		fmt.Fprintf(w, "**Repository:** %s\n", report.URL)
	}
	if report.PrimaryLanguage != "" {
		fmt.Fprintf(w, "**Language:** %s\n", report.PrimaryLanguage)
	}
	fmt.Fprintf(w, "**Analyzed:** %s\n", report.AnalyzedAt.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(w, "**Analysis:** %s (v%s)\n\n", report.AnalysisID, report.AnalysisVersion)

	// Summary
	fmt.Fprintf(w, "## Overall: %.2f/100 (%s)\n\n", report.OverallScore, report.Rating)
	fmt.Fprintf(w, "%s\n\n", report.Recommendation)

	// Metrics
	fmt.Fprintf(w, "## Metrics\n\n")
	fmt.Fprintf(w, "| Metric | Score | Weight | Weighted | Details |\n")
	fmt.Fprintf(w, "|--------|------:|-------:|---------:|---------|\n")
	for _, m := range report.Metrics {
		fmt.Fprintf(w, "| %s | %.2f | %.0f%% | %.2f | %s |\n",
			m.Name, m.Score, m.Weight*100, m.WeightedScore, cell(m.Details))
	}
	fmt.Fprintln(w)

	if a := report.LLMAnalysis; !a.Empty() {
		writeMarkdownAnalysis(w, a)
	}
	return nil
}

func writeMarkdownAnalysis(w io.Writer, a *model.AIAnalysis) {
	fmt.Fprintf(w, "## AI Analysis\n\n")
	if a.Backend != "" {
		fmt.Fprintf(w, "_Backend: %s, %d tokens_\n\n", a.Backend, a.TokensUsed)
	}

	if r := a.Readme; r != nil {
		fmt.Fprintf(w, "### README\n\n")
		fmt.Fprintf(w, "Clarity %.0f, completeness %.0f, structure %.0f.\n\n", r.Clarity, r.Completeness, r.Structure)
		bullets(w, "Strengths", r.Strengths)
		bullets(w, "Weaknesses", r.Weaknesses)
		bullets(w, "Suggestions", r.Suggestions)
	}
	if c := a.CommitQuality; c != nil {
		fmt.Fprintf(w, "### Commit Messages\n\n")
		fmt.Fprintf(w, "Clarity %.0f, consistency %.0f, informativeness %.0f.\n\n", c.Clarity, c.Consistency, c.Informativeness)
		bullets(w, "Strengths", c.Strengths)
		bullets(w, "Weaknesses", c.Weaknesses)
		bullets(w, "Suggestions", c.Suggestions)
	}
	if c := a.CommunityHealth; c != nil {
		fmt.Fprintf(w, "### Community\n\n")
		fmt.Fprintf(w, "Tone %.0f, inclusiveness %.0f, responsiveness %.0f.\n\n", c.Tone, c.Inclusiveness, c.Responsiveness)
		bullets(w, "Positive signals", c.PositiveSignals)
		bullets(w, "Concerns", c.Concerns)
		bullets(w, "Suggestions", c.Suggestions)
	}
	if len(a.Recommendations) > 0 {
		fmt.Fprintf(w, "### Recommendations\n\n")
		fmt.Fprintf(w, "| Impact | Title | Category | Confidence |\n")
		fmt.Fprintf(w, "|--------|-------|----------|-----------:|\n")
		for _, r := range a.Recommendations {
			fmt.Fprintf(w, "| %s | %s | %s | %.0f |\n", r.Impact, cell(r.Title), r.Category, r.Confidence)
		}
		fmt.Fprintln(w)
	}
}

func bullets(w io.Writer, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "**%s**\n\n", heading)
	for _, it := range items {
		fmt.Fprintf(w, "- %s\n", it)
	}
	fmt.Fprintln(w)
}

// cell escapes text for a single table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
