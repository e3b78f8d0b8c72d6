package metrics

import (
	"fmt"
	"math"

	"github.com/dsablic/repomaint/internal/model"
)

// IssueManagement scores the issue closure rate, penalized by a large
// backlog of open issues.
type IssueManagement struct {
	Policy IssuePolicy
}

func (IssueManagement) Name() model.MetricName { return model.MetricIssueManagement }

func (IssueManagement) Description() string {
	return "Issue closure rate, penalized by a large open backlog"
}

func (m IssueManagement) Calculate(s *model.Snapshot) model.MetricResult {
	if s == nil {
		return noData(m)
	}
	open, closed := max(s.OpenIssues, 0), max(s.ClosedIssues, 0)
	total := open + closed
	if total == 0 && s.LocalOnly {
		details := fmt.Sprintf("issue data unavailable for local repositories; neutral score of %.0f applied", m.Policy.NoIssuesScore)
		return model.NewMetricResult(m.Name(), m.Policy.NoIssuesScore, m.Description(), details)
	}
	if total == 0 {
		details := fmt.Sprintf("no issues recorded; neutral score of %.0f applied", m.Policy.NoIssuesScore)
		return model.NewMetricResult(m.Name(), m.Policy.NoIssuesScore, m.Description(), details)
	}

	rate := float64(closed) / float64(total)
	penalty := m.OpenPenalty(open)
	score := rate*100 - penalty

	details := fmt.Sprintf("%d closed, %d open (%.1f%% closure rate)", closed, open, rate*100)
	if penalty > 0 {
		details += fmt.Sprintf("; -%.1f for open backlog above %d", penalty, m.Policy.OpenIssueCeiling)
	}
	return model.NewMetricResult(m.Name(), score, m.Description(), details)
}

// OpenPenalty is the score deduction for open issues beyond the ceiling.
func (m IssueManagement) OpenPenalty(open int) float64 {
	excess := open - m.Policy.OpenIssueCeiling
	if excess <= 0 || m.Policy.OpenIssuesPerPenaltyPoint <= 0 {
		return 0
	}
	return math.Min(m.Policy.MaxOpenPenalty, float64(excess)/m.Policy.OpenIssuesPerPenaltyPoint)
}
