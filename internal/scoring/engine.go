// Package scoring runs the metric calculators in their fixed order and
// aggregates their results into a maintainability report.
package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dsablic/repomaint/internal/augment"
	"github.com/dsablic/repomaint/internal/metrics"
	"github.com/dsablic/repomaint/internal/model"
)

// AnalysisVersion identifies the scoring rules that produced a report.
const AnalysisVersion = "1.0.0"

// Options configure an Engine. Zero values select the defaults.
type Options struct {
	Policy      *metrics.Policy
	Parallel    bool
	Clock       func() time.Time
	NewID       func() string
	Recommender Recommender
}

// Augmenter adds AI commentary to a scored snapshot.
type Augmenter interface {
	Augment(ctx context.Context, s *model.Snapshot, metrics []model.MetricResult) augment.Result
}

// Engine produces maintainability reports.
type Engine struct {
	calculators func(now time.Time) []metrics.Calculator
	opts        Options
}

// NewEngine builds an engine with the six standard calculators.
func NewEngine(opts Options) (*Engine, error) {
	policy := metrics.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring policy: %w", err)
	}
	e := &Engine{opts: withDefaults(opts)}
	e.calculators = func(now time.Time) []metrics.Calculator {
		calcs := make([]metrics.Calculator, len(Order))
		for i, name := range Order {
			c, err := metrics.New(name, policy, now)
			if err != nil {
				panic(err) // Order only lists known metrics
			}
			calcs[i] = c
		}
		return calcs
	}
	return e, nil
}

// NewEngineWith builds an engine from explicit calculators, which must cover
// Order exactly, in that order.
func NewEngineWith(calcs []metrics.Calculator, opts Options) (*Engine, error) {
	if len(calcs) != len(Order) {
		return nil, fmt.Errorf("expected %d calculators, got %d", len(Order), len(calcs))
	}
	for i, c := range calcs {
		if c == nil || c.Name() != Order[i] {
			return nil, fmt.Errorf("calculator %d must be %q", i, Order[i])
		}
	}
	fixed := append([]metrics.Calculator(nil), calcs...)
	return &Engine{
		calculators: func(time.Time) []metrics.Calculator { return fixed },
		opts:        withDefaults(opts),
	}, nil
}

func withDefaults(opts Options) Options {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Recommender == nil {
		opts.Recommender = DefaultRecommender
	}
	return opts
}

// Score produces the deterministic report for s. It never fails: data gaps
// and calculator panics become low-scoring results with explanatory details.
func (e *Engine) Score(s *model.Snapshot) model.Report {
	now := e.opts.Clock().UTC()
	results := e.run(e.calculators(now), s)
	weighted, overall := Aggregate(results)
	rating := RatingFor(overall)

	r := model.Report{
		Metrics:         weighted,
		OverallScore:    overall,
		Rating:          rating,
		AnalyzedAt:      now,
		AnalysisVersion: AnalysisVersion,
		AnalysisID:      e.opts.NewID(),
	}
	if s != nil {
		r.Owner = s.Owner
		r.Name = s.Name
		r.FullName = s.FullName()
		r.Description = s.Description
		r.URL = s.URL
		r.PrimaryLanguage = s.PrimaryLanguage
	}
	r.Recommendation = e.recommend(RecommendationInput{Rating: rating, OverallScore: overall, Metrics: weighted})
	return r
}

// Analyze scores s and then, when aug is non-nil, attaches whatever AI
// analysis succeeds. The deterministic part of the report is identical
// whether or not augmentation runs or fails.
func (e *Engine) Analyze(ctx context.Context, s *model.Snapshot, aug Augmenter) (model.Report, augment.Result) {
	report := e.Score(s)
	if aug == nil {
		return report, augment.Result{State: augment.Skipped}
	}
	res := aug.Augment(ctx, s, report.Metrics)
	if res.State == augment.Augmented && res.Analysis != nil {
		report = report.WithAnalysis(res.Analysis)
	}
	return report, res
}

func (e *Engine) run(calcs []metrics.Calculator, s *model.Snapshot) []model.MetricResult {
	results := make([]model.MetricResult, len(calcs))
	if !e.opts.Parallel {
		for i, c := range calcs {
			results[i] = safeCalculate(c, s)
		}
		return results
	}

	var g errgroup.Group
	for i, c := range calcs {
		g.Go(func() error {
			results[i] = safeCalculate(c, s)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// safeCalculate substitutes a zero-score result when a calculator panics.
func safeCalculate(c metrics.Calculator, s *model.Snapshot) (r model.MetricResult) {
	defer func() {
		if p := recover(); p != nil {
			r = model.NewMetricResult(c.Name(), 0, c.Description(), fmt.Sprintf("calculation failed: %v", p))
		}
	}()
	r = c.Calculate(s)
	r.Name = c.Name()
	return r
}

func (e *Engine) recommend(in RecommendationInput) (text string) {
	defer func() {
		if p := recover(); p != nil {
			text = DefaultRecommender(in)
		}
	}()
	text = e.opts.Recommender(in)
	if text == "" {
		text = DefaultRecommender(in)
	}
	return text
}
