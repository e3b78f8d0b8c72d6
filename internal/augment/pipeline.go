// Package augment enriches a deterministic report with optional AI
// commentary. Every failure degrades to an absent sub-analysis; nothing here
// can fail an analysis.
package augment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dsablic/repomaint/internal/llm"
	"github.com/dsablic/repomaint/internal/model"
)

// DefaultTimeout bounds each sub-request.
const DefaultTimeout = 45 * time.Second

// State is the terminal state of an augmentation attempt.
type State int

const (
	// Skipped means AI was not requested.
	Skipped State = iota
	// Augmented means at least one sub-analysis succeeded.
	Augmented
	// Degraded means AI was requested but nothing succeeded; the report is
	// the deterministic one.
	Degraded
)

func (s State) String() string {
	switch s {
	case Augmented:
		return "augmented"
	case Degraded:
		return "degraded"
	default:
		return "skipped"
	}
}

// Result is the outcome of Augment. Analysis is nil unless State is Augmented.
type Result struct {
	State    State
	Analysis *model.AIAnalysis
	Warnings []string
}

// Pipeline issues the four AI sub-requests and merges whatever succeeds.
type Pipeline struct {
	Backend llm.Backend
	Timeout time.Duration
	Limits  Limits
	// Warn receives one message per unavailable sub-analysis.
	Warn func(string)
}

// New returns a pipeline with default timeout and limits.
func New(b llm.Backend, warn func(string)) *Pipeline {
	return &Pipeline{Backend: b, Timeout: DefaultTimeout, Limits: DefaultLimits(), Warn: warn}
}

// Augment runs the sub-requests concurrently and waits for all of them.
// metrics are the deterministic results passed as context to the
// recommendation request.
func (p *Pipeline) Augment(ctx context.Context, s *model.Snapshot, metrics []model.MetricResult) Result {
	if p == nil || p.Backend == nil {
		return Result{State: Skipped}
	}
	if s == nil {
		s = &model.Snapshot{}
	}
	limits := p.Limits
	if limits == (Limits{}) {
		limits = DefaultLimits()
	}

	var (
		readme    Outcome[model.ReadmeAnalysis]
		commits   Outcome[model.CommitAnalysis]
		community Outcome[model.CommunityAnalysis]
		recs      Outcome[[]model.AIRecommendation]
		tokens    [4]int
	)

	var g errgroup.Group
	g.Go(func() error {
		if strings.TrimSpace(s.Readme) == "" {
			readme = Unavailable[model.ReadmeAnalysis]("repository has no README")
			return nil
		}
		readme, tokens[0] = request(ctx, p, PhaseReadme, readmePrompt, limits.readme(s), parseReadme)
		return nil
	})
	g.Go(func() error {
		if len(s.Commits) == 0 {
			commits = Unavailable[model.CommitAnalysis]("repository has no commits")
			return nil
		}
		commits, tokens[1] = request(ctx, p, PhaseCommits, commitsPrompt, limits.commits(s), parseCommits)
		return nil
	})
	g.Go(func() error {
		community, tokens[2] = request(ctx, p, PhaseCommunity, communityPrompt, limits.community(s), parseCommunity)
		return nil
	})
	g.Go(func() error {
		recs, tokens[3] = request(ctx, p, PhaseRecommendations, recommendationsPrompt, recommendations(s, metrics), parseRecommendations)
		return nil
	})
	_ = g.Wait()

	var res Result
	for _, u := range []struct {
		phase  string
		reason string
	}{
		{PhaseReadme, readme.Reason()},
		{PhaseCommits, commits.Reason()},
		{PhaseCommunity, community.Reason()},
		{PhaseRecommendations, recs.Reason()},
	} {
		if u.reason != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("AI %s analysis unavailable: %s", u.phase, u.reason))
		}
	}

	if !readme.Available() && !commits.Available() && !community.Available() && !recs.Available() {
		return p.degrade(res)
	}

	a := &model.AIAnalysis{
		Backend:         p.Backend.Name(),
		Readme:          readme.Ptr(),
		CommitQuality:   commits.Ptr(),
		CommunityHealth: community.Ptr(),
		Recommendations: []model.AIRecommendation{},
	}
	if r, ok := recs.Get(); ok && r != nil {
		a.Recommendations = r
	}
	for _, t := range tokens {
		a.TokensUsed += t
	}
	// An empty recommendation list alone carries nothing to render.
	if a.Empty() {
		return p.degrade(res)
	}

	res.State = Augmented
	res.Analysis = a
	p.emit(res.Warnings)
	return res
}

func (p *Pipeline) degrade(res Result) Result {
	res.State = Degraded
	res.Analysis = nil
	res.Warnings = append(res.Warnings, "AI augmentation failed; report contains deterministic results only")
	p.emit(res.Warnings)
	return res
}

func (p *Pipeline) emit(warnings []string) {
	if p.Warn == nil {
		return
	}
	for _, w := range warnings {
		p.Warn(w)
	}
}

func (p *Pipeline) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

// request performs one bounded sub-request. Tokens are reported only for
// successful outcomes.
func request[T any](ctx context.Context, p *Pipeline, phase, prompt string, input any, parse func(json.RawMessage) (T, error)) (out Outcome[T], tokens int) {
	defer func() {
		if r := recover(); r != nil {
			out, tokens = Unavailable[T](fmt.Sprintf("internal error: %v", r)), 0
		}
	}()

	timeout := p.timeout()
	ctx, cancel := context.WithTimeout(llm.WithPhase(ctx, phase), timeout)
	defer cancel()

	resp, err := p.Backend.GenerateJSON(ctx, prompt, input)
	if err != nil {
		return Unavailable[T](describe(err, timeout)), 0
	}
	v, err := parse(resp.Raw)
	if err != nil {
		return Unavailable[T]("unusable response: " + err.Error()), 0
	}
	return Success(v), resp.TokensUsed
}

func describe(err error, timeout time.Duration) string {
	var se *llm.StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("timed out after %s", timeout)
	case errors.As(err, &se) && se.Unauthorized():
		return "backend rejected credentials (" + se.Status + ")"
	case errors.Is(err, llm.ErrInvalidJSON):
		return "backend returned malformed JSON"
	default:
		return err.Error()
	}
}
