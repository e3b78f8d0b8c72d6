// Package output renders maintainability reports.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dsablic/repomaint/internal/model"
)

// Write renders report in the named format: text, json, yaml or markdown.
func Write(w io.Writer, format string, report model.Report) error {
	switch format {
	case "", "text":
		return WriteText(w, report)
	case "json":
		return WriteJSON(w, report)
	case "yaml":
		return WriteYAML(w, report)
	case "markdown":
		return WriteMarkdown(w, report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// displayed returns a copy of report with scores rounded to two decimals.
// Reports keep full precision so that ratings are computed from exact sums.
func displayed(report model.Report) model.Report {
	metrics := make([]model.MetricResult, len(report.Metrics))
	for i, m := range report.Metrics {
		m.Score = model.Round2(m.Score)
		m.WeightedScore = model.Round2(m.WeightedScore)
		metrics[i] = m
	}
	report.Metrics = metrics
	report.OverallScore = model.Round2(report.OverallScore)
	return report
}

// WriteFile renders report into path, replacing any existing file.
func WriteFile(path, format string, report model.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()
	return Write(f, format, report)
}
