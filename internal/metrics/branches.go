package metrics

import (
	"fmt"

	"github.com/dsablic/repomaint/internal/model"
)

// BranchManagement scores branch hygiene: a handful of branches is healthy,
// hundreds of stale ones are not.
type BranchManagement struct {
	Policy BranchPolicy
}

func (BranchManagement) Name() model.MetricName { return model.MetricBranchManagement }

func (BranchManagement) Description() string {
	return "Number of active branches (fewer is better)"
}

func (b BranchManagement) Calculate(s *model.Snapshot) model.MetricResult {
	if s == nil {
		return noData(b)
	}
	n := len(s.Branches)
	if n == 0 {
		return model.NewMetricResult(b.Name(), 0, b.Description(), "no branch data")
	}
	score := b.Policy.Count.Lookup(n)
	noun := "branches"
	if n == 1 {
		noun = "branch"
	}
	details := fmt.Sprintf("%d %s", n, noun)
	if len(b.Policy.Count.Steps) > 0 && n <= b.Policy.Count.Steps[0].Max {
		details += " (within the healthy range)"
	}
	return model.NewMetricResult(b.Name(), score, b.Description(), details)
}
