package augment

import (
	"unicode/utf8"

	"github.com/dsablic/repomaint/internal/model"
)

// Phase names tag each sub-request.
const (
	PhaseReadme          = "readme"
	PhaseCommits         = "commits"
	PhaseCommunity       = "community"
	PhaseRecommendations = "recommendations"
)

const readmePrompt = `You review open-source project documentation. The input JSON holds a repository README.

Rate the README from 0 to 100 on clarity, completeness and structure. List concrete strengths, weaknesses and suggestions (short sentences).

Respond with exactly this JSON object and nothing else:
{"clarity": 0, "completeness": 0, "structure": 0, "strengths": [], "weaknesses": [], "suggestions": []}`

const commitsPrompt = `You review version-control hygiene. The input JSON holds the subject lines of the most recent commits, newest first.

Rate the messages from 0 to 100 on clarity, consistency and informativeness. List concrete strengths, weaknesses and suggestions (short sentences).

Respond with exactly this JSON object and nothing else:
{"clarity": 0, "consistency": 0, "informativeness": 0, "strengths": [], "weaknesses": [], "suggestions": []}`

const communityPrompt = `You assess the health of an open-source community. The input JSON holds community counters and excerpts of recent issues.

Rate from 0 to 100 the tone of the discussion, how inclusive it is towards newcomers, and how responsive maintainers appear. List positive signals, concerns and suggestions (short sentences).

Respond with exactly this JSON object and nothing else:
{"tone": 0, "inclusiveness": 0, "responsiveness": 0, "positiveSignals": [], "concerns": [], "suggestions": []}`

const recommendationsPrompt = `You advise maintainers on improving repository maintainability. The input JSON holds repository facts and the deterministic metric scores (0-100).

Suggest up to five improvements, most valuable first. impact is one of HIGH, MEDIUM, LOW. confidence is 0-100. category is one of documentation, commits, activity, issues, community, branches, general.

Respond with exactly this JSON object and nothing else:
{"recommendations": [{"title": "", "description": "", "impact": "MEDIUM", "confidence": 0, "category": "general"}]}`

// Limits bound the repository excerpts sent to the backend.
type Limits struct {
	ReadmeChars    int
	CommitSubjects int
	Issues         int
	IssueChars     int
}

// DefaultLimits returns the standard excerpt bounds.
func DefaultLimits() Limits {
	return Limits{ReadmeChars: 8000, CommitSubjects: 50, Issues: 15, IssueChars: 600}
}

type readmeInput struct {
	Repository string `json:"repository"`
	Readme     string `json:"readme"`
	Truncated  bool   `json:"truncated"`
}

type commitsInput struct {
	Repository string   `json:"repository"`
	Subjects   []string `json:"subjects"`
}

type issueInput struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	State    string `json:"state"`
	Comments int    `json:"comments"`
}

type communityInput struct {
	Repository   string       `json:"repository"`
	Stars        int          `json:"stars"`
	Forks        int          `json:"forks"`
	Contributors int          `json:"contributors"`
	OpenIssues   int          `json:"openIssues"`
	ClosedIssues int          `json:"closedIssues"`
	Issues       []issueInput `json:"issues"`
}

type metricInput struct {
	Name    model.MetricName `json:"name"`
	Score   float64          `json:"score"`
	Details string           `json:"details"`
}

type recommendationsInput struct {
	Repository      string        `json:"repository"`
	Description     string        `json:"description,omitempty"`
	PrimaryLanguage string        `json:"primaryLanguage,omitempty"`
	Files           []string      `json:"files"`
	Metrics         []metricInput `json:"metrics"`
}

func (l Limits) readme(s *model.Snapshot) readmeInput {
	text, cut := truncate(s.Readme, l.ReadmeChars)
	return readmeInput{Repository: s.FullName(), Readme: text, Truncated: cut}
}

func (l Limits) commits(s *model.Snapshot) commitsInput {
	in := commitsInput{Repository: s.FullName(), Subjects: []string{}}
	for _, c := range s.Commits {
		if len(in.Subjects) >= l.CommitSubjects {
			break
		}
		in.Subjects = append(in.Subjects, c.Subject())
	}
	return in
}

func (l Limits) community(s *model.Snapshot) communityInput {
	in := communityInput{
		Repository:   s.FullName(),
		Stars:        s.Stars,
		Forks:        s.Forks,
		Contributors: len(s.Contributors),
		OpenIssues:   s.OpenIssues,
		ClosedIssues: s.ClosedIssues,
		Issues:       []issueInput{},
	}
	for _, is := range s.Issues {
		if len(in.Issues) >= l.Issues {
			break
		}
		body, _ := truncate(is.Body, l.IssueChars)
		in.Issues = append(in.Issues, issueInput{
			Number:   is.Number,
			Title:    is.Title,
			Body:     body,
			State:    is.State,
			Comments: is.Comments,
		})
	}
	return in
}

func recommendations(s *model.Snapshot, metrics []model.MetricResult) recommendationsInput {
	in := recommendationsInput{
		Repository:      s.FullName(),
		Description:     s.Description,
		PrimaryLanguage: s.PrimaryLanguage,
		Files:           append([]string{}, s.Files...),
		Metrics:         make([]metricInput, 0, len(metrics)),
	}
	for _, m := range metrics {
		in.Metrics = append(in.Metrics, metricInput{Name: m.Name, Score: m.Score, Details: m.Details})
	}
	return in
}

// truncate cuts s to at most n characters, reporting whether it did.
func truncate(s string, n int) (string, bool) {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}
