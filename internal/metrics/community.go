package metrics

import (
	"fmt"
	"math"

	"github.com/dsablic/repomaint/internal/model"
)

// Community scores stars, forks and contributors on a logarithmic scale so
// that viral repositories saturate instead of dominating.
type Community struct {
	Policy CommunityPolicy
}

func (Community) Name() model.MetricName { return model.MetricCommunity }

func (Community) Description() string {
	return "Community size from stars, forks and contributors (log-scaled)"
}

func (c Community) Calculate(s *model.Snapshot) model.MetricResult {
	if s == nil {
		return noData(c)
	}
	p := c.Policy
	contributors := len(s.Contributors)

	nStars := LogNormalize(float64(s.Stars), p.StarsCeiling)
	nForks := LogNormalize(float64(s.Forks), p.ForksCeiling)
	nContrib := LogNormalize(float64(contributors), p.ContributorsCeiling)

	score := (nStars*p.StarsWeight + nForks*p.ForksWeight + nContrib*p.ContributorsWeight) * 100
	details := fmt.Sprintf("%d stars, %d forks, %d contributors", s.Stars, s.Forks, contributors)
	if s.LocalOnly {
		details = fmt.Sprintf("%d contributors; stars and forks unavailable for local repositories", contributors)
	}
	return model.NewMetricResult(c.Name(), score, c.Description(), details)
}

// LogNormalize maps v onto [0,1] with log1p(v)/log1p(ceiling).
func LogNormalize(v, ceiling float64) float64 {
	if v <= 0 || ceiling <= 0 {
		return 0
	}
	n := math.Log1p(v) / math.Log1p(ceiling)
	return math.Min(n, 1)
}
