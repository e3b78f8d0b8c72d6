package scoring

import (
	"math"

	"github.com/dsablic/repomaint/internal/model"
)

const (
	ExcellentThreshold = 90.0
	GoodThreshold      = 70.0
	FairThreshold      = 50.0
)

// RatingFor maps an overall score to its tier. Lower bounds are inclusive;
// NaN is POOR.
func RatingFor(score float64) model.Rating {
	switch {
	case math.IsNaN(score):
		return model.RatingPoor
	case score >= ExcellentThreshold:
		return model.RatingExcellent
	case score >= GoodThreshold:
		return model.RatingGood
	case score >= FairThreshold:
		return model.RatingFair
	default:
		return model.RatingPoor
	}
}

// Aggregate weights results and returns them with the overall score, the
// clamped sum of score×weight. Nothing is rounded to display precision here:
// the rating is derived from the exact sum. Results must already be in Order.
func Aggregate(results []model.MetricResult) ([]model.MetricResult, float64) {
	weighted := make([]model.MetricResult, len(results))
	var total float64
	for i, r := range results {
		weighted[i] = r.WithWeight(Weights[r.Name])
		total += weighted[i].WeightedScore
	}
	return weighted, model.ClampScore(model.RoundNoise(total))
}
