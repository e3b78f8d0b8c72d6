// internal/model/model.go
package model

import (
	"math"
	"time"
)

// CommitSampleLimit bounds how many recent commits a snapshot carries.
const CommitSampleLimit = 100

// Commit is a single commit from the repository history.
type Commit struct {
	Hash      string    `json:"hash,omitempty" yaml:"hash,omitempty"`
	Message   string    `json:"message" yaml:"message"`
	Author    string    `json:"author" yaml:"author"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	for i, ch := range c.Message {
		if ch == '\n' || ch == '\r' {
			return c.Message[:i]
		}
	}
	return c.Message
}

// IssueExcerpt is a short excerpt of a recent issue, used as context for
// community-health commentary.
type IssueExcerpt struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	State    string `json:"state"`
	Comments int    `json:"comments"`
}

// Snapshot holds every repository fact consumed by one analysis run.
// It is built once by a data source and treated as read-only afterwards.
type Snapshot struct {
	Owner           string
	Name            string
	Description     string
	URL             string
	PrimaryLanguage string
	License         string // SPDX identifier, empty when unknown

	Stars        int
	Forks        int
	OpenIssues   int
	ClosedIssues int

	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastCommitAt time.Time

	Files        []string // top-level names, plus community paths like ".github/CONTRIBUTING.md"
	Commits      []Commit // most recent first
	Branches     []string
	Contributors []string
	Readme       string
	Issues       []IssueExcerpt

	// LocalOnly marks snapshots read from a bare checkout, where stars,
	// forks and issue counts are unknown rather than zero.
	LocalOnly bool
}

// FullName returns "owner/name", or just the name when the owner is unknown.
func (s *Snapshot) FullName() string {
	if s.Owner == "" {
		return s.Name
	}
	return s.Owner + "/" + s.Name
}

// LatestCommit returns the time of the most recent commit. LastCommitAt wins
// when set; otherwise the newest commit timestamp is used. The zero time
// means the age is unknown.
func (s *Snapshot) LatestCommit() time.Time {
	if !s.LastCommitAt.IsZero() {
		return s.LastCommitAt
	}
	var latest time.Time
	for _, c := range s.Commits {
		if c.Timestamp.After(latest) {
			latest = c.Timestamp
		}
	}
	return latest
}

// MetricName identifies one of the six fixed metrics.
type MetricName string

const (
	MetricDocumentation    MetricName = "Documentation"
	MetricCommitQuality    MetricName = "Commit Quality"
	MetricActivity         MetricName = "Activity"
	MetricIssueManagement  MetricName = "Issue Management"
	MetricCommunity        MetricName = "Community"
	MetricBranchManagement MetricName = "Branch Management"
)

// MetricResult is the output of one calculator, weighted by the scoring engine.
type MetricResult struct {
	Name          MetricName `json:"name" yaml:"name"`
	Score         float64    `json:"score" yaml:"score"`
	Weight        float64    `json:"weight" yaml:"weight"`
	WeightedScore float64    `json:"weightedScore" yaml:"weightedScore"`
	Description   string     `json:"description" yaml:"description"`
	Details       string     `json:"details" yaml:"details"`
}

// NewMetricResult builds an unweighted result with the score clamped to [0,100].
func NewMetricResult(name MetricName, score float64, description, details string) MetricResult {
	return MetricResult{
		Name:        name,
		Score:       ClampScore(score),
		Description: description,
		Details:     details,
	}
}

// WithWeight returns a copy carrying the weight and the weighted score.
// The weighted score keeps full precision; rounding happens on display.
func (m MetricResult) WithWeight(weight float64) MetricResult {
	m.Score = ClampScore(m.Score)
	m.Weight = weight
	m.WeightedScore = RoundNoise(m.Score * weight)
	return m
}

// ClampScore limits v to [0,100]. NaN maps to 0.
func ClampScore(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// RoundNoise drops binary floating-point error below 1e-9, so that 80×0.15
// is 12 rather than 12.000000000000002. It never changes a value by more
// than that.
func RoundNoise(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rating is the quality tier derived from the overall score.
type Rating string

const (
	RatingExcellent Rating = "EXCELLENT"
	RatingGood      Rating = "GOOD"
	RatingFair      Rating = "FAIR"
	RatingPoor      Rating = "POOR"
)

// Report is the finished maintainability report for one repository.
type Report struct {
	Owner           string         `json:"owner" yaml:"owner"`
	Name            string         `json:"name" yaml:"name"`
	FullName        string         `json:"fullName" yaml:"fullName"`
	Description     string         `json:"description,omitempty" yaml:"description,omitempty"`
	URL             string         `json:"url" yaml:"url"`
	PrimaryLanguage string         `json:"primaryLanguage,omitempty" yaml:"primaryLanguage,omitempty"`
	Metrics         []MetricResult `json:"metrics" yaml:"metrics"`
	OverallScore    float64        `json:"overallScore" yaml:"overallScore"`
	Rating          Rating         `json:"rating" yaml:"rating"`
	Recommendation  string         `json:"recommendation" yaml:"recommendation"`
	LLMAnalysis     *AIAnalysis    `json:"llmAnalysis,omitempty" yaml:"llmAnalysis,omitempty"`
	AnalyzedAt      time.Time      `json:"analyzedAt" yaml:"analyzedAt"`
	AnalysisVersion string         `json:"analysisVersion" yaml:"analysisVersion"`
	AnalysisID      string         `json:"analysisId" yaml:"analysisId"`
}

// Metric returns the result for name, if present.
func (r *Report) Metric(name MetricName) (MetricResult, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return MetricResult{}, false
}

// WithAnalysis returns a copy of the report carrying the AI analysis.
// The metric slice is shared; reports are never mutated after construction.
func (r Report) WithAnalysis(a *AIAnalysis) Report {
	r.LLMAnalysis = a
	return r
}
