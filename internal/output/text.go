package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/dsablic/repomaint/internal/model"
)

var ratingColors = map[model.Rating]lipgloss.Color{
	model.RatingExcellent: lipgloss.Color("42"),
	model.RatingGood:      lipgloss.Color("39"),
	model.RatingFair:      lipgloss.Color("214"),
	model.RatingPoor:      lipgloss.Color("196"),
}

// WriteText writes a styled, human-readable report to w. Colors are only
// emitted when w is a color-capable terminal.
func WriteText(w io.Writer, report model.Report) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)
	muted := r.NewStyle().Foreground(lipgloss.Color("241"))
	rating := r.NewStyle().Bold(true).Foreground(ratingColors[report.Rating])
	wrap := r.NewStyle().Width(textWidth())

	fmt.Fprintln(w, title.Render("Maintainability report: "+report.FullName))
	if report.URL != "" {
		fmt.Fprintln(w, muted.Render(report.URL))
	}
	if report.PrimaryLanguage != "" {
		fmt.Fprintln(w, muted.Render("Language: "+report.PrimaryLanguage))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Overall score: %.2f/100  %s\n\n", report.OverallScore, rating.Render(string(report.Rating)))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Score", "Weight", "Weighted", "Details"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignLeft}
	})
	var rows [][]string
	for _, m := range report.Metrics {
		rows = append(rows, []string{
			string(m.Name),
			fmt.Sprintf("%.2f", m.Score),
			fmt.Sprintf("%.0f%%", m.Weight*100),
			fmt.Sprintf("%.2f", m.WeightedScore),
			m.Details,
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, title.Render("Recommendation"))
	fmt.Fprintln(w, wrap.Render(report.Recommendation))

	if a := report.LLMAnalysis; !a.Empty() {
		fmt.Fprintln(w)
		heading := "AI analysis"
		if a.Backend != "" {
			heading += " (" + a.Backend + ")"
		}
		fmt.Fprintln(w, title.Render(heading))
		if a.Readme != nil {
			fmt.Fprintf(w, "  README: clarity %.0f, completeness %.0f, structure %.0f\n", a.Readme.Clarity, a.Readme.Completeness, a.Readme.Structure)
		}
		if a.CommitQuality != nil {
			fmt.Fprintf(w, "  Commits: clarity %.0f, consistency %.0f, informativeness %.0f\n", a.CommitQuality.Clarity, a.CommitQuality.Consistency, a.CommitQuality.Informativeness)
		}
		if a.CommunityHealth != nil {
			fmt.Fprintf(w, "  Community: tone %.0f, inclusiveness %.0f, responsiveness %.0f\n", a.CommunityHealth.Tone, a.CommunityHealth.Inclusiveness, a.CommunityHealth.Responsiveness)
		}
		for _, rec := range a.Recommendations {
			fmt.Fprintf(w, "  [%s] %s\n", rec.Impact, rec.Title)
		}
		fmt.Fprintln(w, muted.Render(fmt.Sprintf("  %d tokens used", a.TokensUsed)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, muted.Render(fmt.Sprintf("Analysis %s, v%s, %s", report.AnalysisID, report.AnalysisVersion, report.AnalyzedAt.UTC().Format("2006-01-02 15:04 UTC"))))
	return nil
}

// textWidth is the wrap width for prose: the terminal width within
// [60, 100], or 80 when stdout is not a terminal.
func textWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return min(max(width, 60), 100)
}
