// internal/metrics/metrics.go
// Package metrics implements the six maintainability calculators. Each one is
// a pure function of a repository snapshot and clamps its own score.
package metrics

import (
	"fmt"
	"time"

	"github.com/dsablic/repomaint/internal/model"
)

// Calculator scores one aspect of a repository snapshot.
type Calculator interface {
	Name() model.MetricName
	Description() string
	Calculate(s *model.Snapshot) model.MetricResult
}

// New returns the calculator for name. now is the analysis time used by
// time-dependent metrics.
func New(name model.MetricName, p Policy, now time.Time) (Calculator, error) {
	switch name {
	case model.MetricDocumentation:
		return Documentation{}, nil
	case model.MetricCommitQuality:
		return NewCommitQuality(p.Commit), nil
	case model.MetricActivity:
		return Activity{Policy: p.Activity, Now: now}, nil
	case model.MetricIssueManagement:
		return IssueManagement{Policy: p.Issues}, nil
	case model.MetricCommunity:
		return Community{Policy: p.Community}, nil
	case model.MetricBranchManagement:
		return BranchManagement{Policy: p.Branches}, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", name)
	}
}

// Describe returns the static description for name, or "" if unknown.
func Describe(name model.MetricName) string {
	c, err := New(name, DefaultPolicy(), time.Time{})
	if err != nil {
		return ""
	}
	return c.Description()
}

// noData is the result for a snapshot that cannot be scored at all.
func noData(c Calculator) model.MetricResult {
	return model.NewMetricResult(c.Name(), 0, c.Description(), "no repository data available")
}
