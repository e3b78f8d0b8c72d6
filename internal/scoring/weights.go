package scoring

import "github.com/dsablic/repomaint/internal/model"

// Order is the fixed calculation order. Reports list metrics in this order.
var Order = []model.MetricName{
	model.MetricDocumentation,
	model.MetricCommitQuality,
	model.MetricActivity,
	model.MetricIssueManagement,
	model.MetricCommunity,
	model.MetricBranchManagement,
}

// Weights are the fixed metric weights. They sum to 1.0.
var Weights = map[model.MetricName]float64{
	model.MetricDocumentation:    0.20,
	model.MetricCommitQuality:    0.15,
	model.MetricActivity:         0.15,
	model.MetricIssueManagement:  0.20,
	model.MetricCommunity:        0.15,
	model.MetricBranchManagement: 0.15,
}

// WeightSum returns the sum of Weights.
func WeightSum() float64 {
	var sum float64
	for _, name := range Order {
		sum += Weights[name]
	}
	return sum
}
