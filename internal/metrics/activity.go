package metrics

import (
	"fmt"
	"time"

	"github.com/dsablic/repomaint/internal/model"
)

// Activity scores how recently the repository received a commit.
type Activity struct {
	Policy ActivityPolicy
	Now    time.Time
}

func (Activity) Name() model.MetricName { return model.MetricActivity }

func (Activity) Description() string {
	return "Recency of the latest commit relative to the analysis time"
}

func (a Activity) Calculate(s *model.Snapshot) model.MetricResult {
	if s == nil {
		return noData(a)
	}
	latest := s.LatestCommit()
	if latest.IsZero() {
		return model.NewMetricResult(a.Name(), 0, a.Description(), "no commit history; last commit age unknown")
	}

	days := DaysSince(latest, a.Now)
	score := a.Policy.AgeDays.Lookup(days)
	details := fmt.Sprintf("last commit %s (%s)", latest.UTC().Format("2006-01-02"), ageLabel(days))
	return model.NewMetricResult(a.Name(), score, a.Description(), details)
}

// DaysSince returns whole days between t and now. Future times count as 0.
func DaysSince(t, now time.Time) int {
	days := int(now.Sub(t).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days
}

func ageLabel(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
