package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dsablic/repomaint/internal/model"
)

// CommitQuality scores how many recent commits follow the conventional
// `type(scope): subject` format.
type CommitQuality struct {
	policy       CommitPolicy
	pattern      *regexp.Regexp
	placeholders map[string]bool
}

// NewCommitQuality compiles the conventional-commit pattern for p.
func NewCommitQuality(p CommitPolicy) CommitQuality {
	types := make([]string, len(p.Types))
	for i, t := range p.Types {
		types[i] = regexp.QuoteMeta(strings.ToLower(t))
	}
	placeholders := make(map[string]bool, len(p.Placeholders))
	for _, w := range p.Placeholders {
		placeholders[strings.ToLower(w)] = true
	}
	return CommitQuality{
		policy:       p,
		pattern:      regexp.MustCompile(`^(?i:` + strings.Join(types, "|") + `)(\([^()\s][^()]*\))?!?: (.+)$`),
		placeholders: placeholders,
	}
}

func (CommitQuality) Name() model.MetricName { return model.MetricCommitQuality }

func (CommitQuality) Description() string {
	return "Share of recent commits with well-formed conventional messages"
}

func (c CommitQuality) Calculate(s *model.Snapshot) model.MetricResult {
	if s == nil {
		return noData(c)
	}
	if len(s.Commits) == 0 {
		return model.NewMetricResult(c.Name(), 0, c.Description(), "no commits found")
	}

	sample := s.Commits
	if c.policy.SampleSize > 0 && len(sample) > c.policy.SampleSize {
		sample = sample[:c.policy.SampleSize]
	}

	wellFormed := 0
	for _, commit := range sample {
		if c.WellFormed(commit.Subject()) {
			wellFormed++
		}
	}

	score := float64(wellFormed) / float64(len(sample)) * 100
	details := fmt.Sprintf("%d of %d sampled commits follow the conventional format", wellFormed, len(sample))
	return model.NewMetricResult(c.Name(), score, c.Description(), details)
}

// WellFormed reports whether a commit subject line is a conventional commit
// with a meaningful subject.
func (c CommitQuality) WellFormed(subject string) bool {
	subject = strings.TrimSpace(subject)
	m := c.pattern.FindStringSubmatch(subject)
	if m == nil {
		return false
	}
	text := strings.TrimSpace(m[2])
	if utf8.RuneCountInString(text) < c.policy.MinSubjectLength {
		return false
	}
	return !c.placeholders[strings.ToLower(strings.TrimRight(text, ".!"))]
}
