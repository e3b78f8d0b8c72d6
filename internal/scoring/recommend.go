package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dsablic/repomaint/internal/model"
)

// WeakThreshold is the score under which a metric counts as a weak area.
const WeakThreshold = 60.0

// maxWeakAreas caps how many metrics a recommendation names.
const maxWeakAreas = 2

// RecommendationInput is what a Recommender sees.
type RecommendationInput struct {
	Rating       model.Rating
	OverallScore float64
	Metrics      []model.MetricResult
}

// Recommender turns a scored report into a short paragraph.
type Recommender func(RecommendationInput) string

var actionHints = map[model.MetricName]string{
	model.MetricDocumentation:    "add the missing project documents (README, CONTRIBUTING, LICENSE, CODE_OF_CONDUCT, CHANGELOG)",
	model.MetricCommitQuality:    "adopt conventional commit messages with descriptive subjects",
	model.MetricActivity:         "land regular commits or mark the project as archived",
	model.MetricIssueManagement:  "triage the backlog and close resolved or stale issues",
	model.MetricCommunity:        "make the project easier to discover and to contribute to",
	model.MetricBranchManagement: "delete merged and stale branches",
}

// ActionHint returns the suggested next step for a metric.
func ActionHint(name model.MetricName) string {
	if h, ok := actionHints[name]; ok {
		return h
	}
	return "review this area"
}

// WeakAreas returns the metrics to call out, lowest score first with ties
// kept in calculation order: up to two below WeakThreshold, and always the
// lowest one when the rating is below GOOD.
func WeakAreas(rating model.Rating, metrics []model.MetricResult) []model.MetricResult {
	sorted := append([]model.MetricResult(nil), metrics...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score < sorted[j].Score })

	var weak []model.MetricResult
	for _, m := range sorted {
		if m.Score >= WeakThreshold || len(weak) == maxWeakAreas {
			break
		}
		weak = append(weak, m)
	}
	if len(weak) == 0 && len(sorted) > 0 && belowGood(rating) {
		weak = sorted[:1]
	}
	return weak
}

func belowGood(r model.Rating) bool {
	return r == model.RatingFair || r == model.RatingPoor
}

// DefaultRecommender picks a tone by rating tier and names the weakest areas.
func DefaultRecommender(in RecommendationInput) string {
	weak := WeakAreas(in.Rating, in.Metrics)

	var b strings.Builder
	switch in.Rating {
	case model.RatingExcellent:
		fmt.Fprintf(&b, "Excellent maintainability (%.2f/100). Keep the current practices in place.", in.OverallScore)
	case model.RatingGood:
		fmt.Fprintf(&b, "Good maintainability (%.2f/100). A few targeted improvements would make this project excellent.", in.OverallScore)
	case model.RatingFair:
		fmt.Fprintf(&b, "Fair maintainability (%.2f/100). The project works but shows gaps that will slow contributors down.", in.OverallScore)
	default:
		fmt.Fprintf(&b, "Poor maintainability (%.2f/100). Significant investment is needed before this project is easy to maintain.", in.OverallScore)
	}

	switch {
	case len(weak) > 0:
		b.WriteString(" Focus first on ")
		for i, m := range weak {
			if i > 0 {
				b.WriteString("; then ")
			}
			fmt.Fprintf(&b, "%s (%.0f/100): %s", m.Name, m.Score, ActionHint(m.Name))
		}
		b.WriteString(".")
	case len(in.Metrics) > 0 && in.Rating == model.RatingGood:
		lowest := WeakAreas(model.RatingPoor, in.Metrics)[0]
		fmt.Fprintf(&b, " The lowest-scoring area is %s (%.0f/100): %s.", lowest.Name, lowest.Score, ActionHint(lowest.Name))
	}
	return b.String()
}
