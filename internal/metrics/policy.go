// internal/metrics/policy.go
package metrics

import (
	"errors"
	"fmt"
	"math"
)

// Step maps every value up to and including Max to Score.
type Step struct {
	Max   int     `mapstructure:"max" json:"max" yaml:"max"`
	Score float64 `mapstructure:"score" json:"score" yaml:"score"`
}

// StepTable is an ascending list of steps plus the score for anything beyond
// the last step.
type StepTable struct {
	Steps  []Step  `mapstructure:"steps" json:"steps" yaml:"steps"`
	Beyond float64 `mapstructure:"beyond" json:"beyond" yaml:"beyond"`
}

// Lookup returns the score for v.
func (t StepTable) Lookup(v int) float64 {
	for _, s := range t.Steps {
		if v <= s.Max {
			return s.Score
		}
	}
	return t.Beyond
}

// validateNonIncreasing checks that breakpoints ascend and scores never rise.
func (t StepTable) validateNonIncreasing(name string) error {
	if len(t.Steps) == 0 {
		return fmt.Errorf("%s: at least one step is required", name)
	}
	prev := t.Steps[0]
	if err := checkRange(name, prev.Score); err != nil {
		return err
	}
	for _, s := range t.Steps[1:] {
		if s.Max <= prev.Max {
			return fmt.Errorf("%s: step maxima must ascend (%d after %d)", name, s.Max, prev.Max)
		}
		if s.Score > prev.Score {
			return fmt.Errorf("%s: scores must not increase (%.2f after %.2f)", name, s.Score, prev.Score)
		}
		if err := checkRange(name, s.Score); err != nil {
			return err
		}
		prev = s
	}
	if t.Beyond > prev.Score {
		return fmt.Errorf("%s: beyond score %.2f exceeds last step %.2f", name, t.Beyond, prev.Score)
	}
	return checkRange(name, t.Beyond)
}

// CommitPolicy tunes the Commit Quality calculator.
type CommitPolicy struct {
	SampleSize       int      `mapstructure:"sample-size" json:"sampleSize" yaml:"sampleSize"`
	MinSubjectLength int      `mapstructure:"min-subject-length" json:"minSubjectLength" yaml:"minSubjectLength"`
	Types            []string `mapstructure:"types" json:"types" yaml:"types"`
	Placeholders     []string `mapstructure:"placeholders" json:"placeholders" yaml:"placeholders"`
}

// ActivityPolicy maps days since the last commit to a score.
type ActivityPolicy struct {
	AgeDays StepTable `mapstructure:"age-days" json:"ageDays" yaml:"ageDays"`
}

// IssuePolicy tunes the Issue Management calculator.
type IssuePolicy struct {
	NoIssuesScore             float64 `mapstructure:"no-issues-score" json:"noIssuesScore" yaml:"noIssuesScore"`
	OpenIssueCeiling          int     `mapstructure:"open-issue-ceiling" json:"openIssueCeiling" yaml:"openIssueCeiling"`
	OpenIssuesPerPenaltyPoint float64 `mapstructure:"open-issues-per-penalty-point" json:"openIssuesPerPenaltyPoint" yaml:"openIssuesPerPenaltyPoint"`
	MaxOpenPenalty            float64 `mapstructure:"max-open-penalty" json:"maxOpenPenalty" yaml:"maxOpenPenalty"`
}

// CommunityPolicy sets log-scale ceilings and sub-weights for community signals.
type CommunityPolicy struct {
	StarsCeiling        float64 `mapstructure:"stars-ceiling" json:"starsCeiling" yaml:"starsCeiling"`
	ForksCeiling        float64 `mapstructure:"forks-ceiling" json:"forksCeiling" yaml:"forksCeiling"`
	ContributorsCeiling float64 `mapstructure:"contributors-ceiling" json:"contributorsCeiling" yaml:"contributorsCeiling"`
	StarsWeight         float64 `mapstructure:"stars-weight" json:"starsWeight" yaml:"starsWeight"`
	ForksWeight         float64 `mapstructure:"forks-weight" json:"forksWeight" yaml:"forksWeight"`
	ContributorsWeight  float64 `mapstructure:"contributors-weight" json:"contributorsWeight" yaml:"contributorsWeight"`
}

// BranchPolicy maps the number of branches to a score.
type BranchPolicy struct {
	Count StepTable `mapstructure:"count" json:"count" yaml:"count"`
}

// Policy groups the tunable constants of every calculator.
type Policy struct {
	Commit    CommitPolicy    `mapstructure:"commit" json:"commit" yaml:"commit"`
	Activity  ActivityPolicy  `mapstructure:"activity" json:"activity" yaml:"activity"`
	Issues    IssuePolicy     `mapstructure:"issues" json:"issues" yaml:"issues"`
	Community CommunityPolicy `mapstructure:"community" json:"community" yaml:"community"`
	Branches  BranchPolicy    `mapstructure:"branches" json:"branches" yaml:"branches"`
}

// DefaultPolicy returns the default scoring constants.
func DefaultPolicy() Policy {
	return Policy{
		Commit: CommitPolicy{
			SampleSize:       100,
			MinSubjectLength: 10,
			Types:            []string{"feat", "fix", "docs", "style", "refactor", "perf", "test", "build", "ci", "chore", "revert"},
			Placeholders:     []string{"wip", "fix", "update", "updates", "changes", "misc", "stuff", "tmp", "temp", "test", "typo"},
		},
		Activity: ActivityPolicy{
			AgeDays: StepTable{
				Steps: []Step{
					{Max: 7, Score: 100},
					{Max: 30, Score: 90},
					{Max: 90, Score: 75},
					{Max: 180, Score: 50},
					{Max: 365, Score: 25},
					{Max: 730, Score: 10},
				},
				Beyond: 0,
			},
		},
		Issues: IssuePolicy{
			NoIssuesScore:             50,
			OpenIssueCeiling:          100,
			OpenIssuesPerPenaltyPoint: 10,
			MaxOpenPenalty:            30,
		},
		Community: CommunityPolicy{
			StarsCeiling:        10000,
			ForksCeiling:        2000,
			ContributorsCeiling: 100,
			StarsWeight:         0.5,
			ForksWeight:         0.3,
			ContributorsWeight:  0.2,
		},
		Branches: BranchPolicy{
			Count: StepTable{
				Steps: []Step{
					{Max: 5, Score: 100},
					{Max: 10, Score: 85},
					{Max: 20, Score: 70},
					{Max: 50, Score: 50},
					{Max: 100, Score: 30},
				},
				Beyond: 10,
			},
		},
	}
}

// Validate rejects policies that would break clamping or monotonicity.
func (p Policy) Validate() error {
	var errs []error

	if p.Commit.SampleSize <= 0 {
		errs = append(errs, errors.New("commit: sample size must be positive"))
	}
	if p.Commit.MinSubjectLength < 0 {
		errs = append(errs, errors.New("commit: min subject length must not be negative"))
	}
	if len(p.Commit.Types) == 0 {
		errs = append(errs, errors.New("commit: at least one conventional type is required"))
	}

	if err := p.Activity.AgeDays.validateNonIncreasing("activity"); err != nil {
		errs = append(errs, err)
	}
	if err := p.Branches.Count.validateNonIncreasing("branches"); err != nil {
		errs = append(errs, err)
	}

	if err := checkRange("issues: no-issues score", p.Issues.NoIssuesScore); err != nil {
		errs = append(errs, err)
	}
	if p.Issues.OpenIssueCeiling < 0 {
		errs = append(errs, errors.New("issues: open issue ceiling must not be negative"))
	}
	if p.Issues.OpenIssuesPerPenaltyPoint <= 0 {
		errs = append(errs, errors.New("issues: open issues per penalty point must be positive"))
	}
	if p.Issues.MaxOpenPenalty < 0 || p.Issues.MaxOpenPenalty > 100 {
		errs = append(errs, errors.New("issues: max open penalty must be within [0,100]"))
	}

	c := p.Community
	if c.StarsCeiling <= 0 || c.ForksCeiling <= 0 || c.ContributorsCeiling <= 0 {
		errs = append(errs, errors.New("community: ceilings must be positive"))
	}
	if c.StarsWeight < 0 || c.ForksWeight < 0 || c.ContributorsWeight < 0 {
		errs = append(errs, errors.New("community: sub-weights must not be negative"))
	}
	if sum := c.StarsWeight + c.ForksWeight + c.ContributorsWeight; math.Abs(sum-1) > 1e-9 {
		errs = append(errs, fmt.Errorf("community: sub-weights must sum to 1.0, got %.4f", sum))
	}

	return errors.Join(errs...)
}

func checkRange(name string, v float64) error {
	if v < 0 || v > 100 || math.IsNaN(v) {
		return fmt.Errorf("%s: score %.2f outside [0,100]", name, v)
	}
	return nil
}
