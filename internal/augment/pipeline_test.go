package augment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsablic/repomaint/internal/augment"
	"github.com/dsablic/repomaint/internal/llm"
	"github.com/dsablic/repomaint/internal/model"
)

const (
	readmeJSON    = `{"clarity": 85, "completeness": 70, "structure": 90, "strengths": ["clear install steps"], "weaknesses": [], "suggestions": ["add examples"]}`
	commitsJSON   = `{"clarity": 60, "consistency": 55, "informativeness": 65}`
	communityJSON = `{"tone": 80, "inclusiveness": 75, "responsiveness": 40, "positiveSignals": ["friendly replies"], "concerns": ["slow triage"]}`
	recsJSON      = `{"recommendations": [{"title": "Add CONTRIBUTING.md", "description": "Explain the workflow.", "impact": "high", "confidence": 90, "category": "Documentation"}]}`
)

func snapshot() *model.Snapshot {
	return &model.Snapshot{
		Owner:   "acme",
		Name:    "widget",
		Readme:  "# Widget\n\nA widget.",
		Commits: []model.Commit{{Message: "feat: add widget rendering"}, {Message: "fix: handle empty widgets"}},
		Issues:  []model.IssueExcerpt{{Number: 1, Title: "Crash on start", State: "open"}},
	}
}

func allOK() map[string]llm.Reply {
	return map[string]llm.Reply{
		augment.PhaseReadme:          {JSON: readmeJSON, Tokens: 100},
		augment.PhaseCommits:         {JSON: commitsJSON, Tokens: 50},
		augment.PhaseCommunity:       {JSON: communityJSON, Tokens: 25},
		augment.PhaseRecommendations: {JSON: recsJSON, Tokens: 10},
	}
}

type warnings struct {
	mu   sync.Mutex
	msgs []string
}

func (w *warnings) add(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, s)
}

func TestAugmentSkippedWithoutBackend(t *testing.T) {
	var p *augment.Pipeline
	res := p.Augment(context.Background(), snapshot(), nil)
	assert.Equal(t, augment.Skipped, res.State)
	assert.Nil(t, res.Analysis)

	res = augment.New(nil, nil).Augment(context.Background(), snapshot(), nil)
	assert.Equal(t, augment.Skipped, res.State)
}

func TestAugmentAllSucceed(t *testing.T) {
	var w warnings
	p := augment.New(llm.NewFake(allOK()), w.add)

	res := p.Augment(context.Background(), snapshot(), nil)
	require.Equal(t, augment.Augmented, res.State)
	a := res.Analysis
	require.NotNil(t, a)

	require.NotNil(t, a.Readme)
	assert.Equal(t, 85.0, a.Readme.Clarity)
	assert.Equal(t, []string{"clear install steps"}, a.Readme.Strengths)
	assert.NotNil(t, a.Readme.Weaknesses)
	assert.Empty(t, a.Readme.Weaknesses)

	require.NotNil(t, a.CommitQuality)
	assert.NotNil(t, a.CommitQuality.Strengths)
	assert.NotNil(t, a.CommitQuality.Suggestions)

	require.NotNil(t, a.CommunityHealth)
	assert.Equal(t, 40.0, a.CommunityHealth.Responsiveness)

	require.Len(t, a.Recommendations, 1)
	assert.Equal(t, model.ImpactHigh, a.Recommendations[0].Impact)
	assert.Equal(t, "documentation", a.Recommendations[0].Category)

	assert.Equal(t, 185, a.TokensUsed)
	assert.Equal(t, "fake", a.Backend)
	assert.Empty(t, w.msgs)
}

func TestAugmentPartialFailureKeepsSuccesses(t *testing.T) {
	replies := allOK()
	replies[augment.PhaseCommunity] = llm.Reply{Err: &llm.StatusError{Backend: "openai", StatusCode: 500, Status: "500 Internal Server Error"}, Tokens: 999}
	var w warnings
	p := augment.New(llm.NewFake(replies), w.add)

	res := p.Augment(context.Background(), snapshot(), nil)
	require.Equal(t, augment.Augmented, res.State)
	assert.NotNil(t, res.Analysis.Readme)
	assert.NotNil(t, res.Analysis.CommitQuality)
	assert.Nil(t, res.Analysis.CommunityHealth)
	assert.Len(t, res.Analysis.Recommendations, 1)
	assert.Equal(t, 160, res.Analysis.TokensUsed)

	require.Len(t, w.msgs, 1)
	assert.Contains(t, w.msgs[0], "community")
}

func TestAugmentMissingReadmeSkipsRequest(t *testing.T) {
	fake := llm.NewFake(allOK())
	s := snapshot()
	s.Readme = "  "

	res := augment.New(fake, nil).Augment(context.Background(), s, nil)
	require.Equal(t, augment.Augmented, res.State)
	assert.Nil(t, res.Analysis.Readme)
	assert.Equal(t, 0, fake.Calls(augment.PhaseReadme))
	assert.Contains(t, res.Warnings[0], "no README")
}

func TestAugmentDegradedModes(t *testing.T) {
	modes := map[string]llm.Reply{
		"timeout":        {Block: true},
		"unauthorized":   {Err: &llm.StatusError{Backend: "openai", StatusCode: 401, Status: "401 Unauthorized"}},
		"malformed json": {JSON: `{"clarity": `},
		"empty body":     {JSON: ""},
		"transport":      {Err: errors.New("dial tcp: connection refused")},
		"panic":          {Panic: "backend exploded"},
		"missing fields": {JSON: `{"strengths": ["nice"]}`},
	}
	for name, reply := range modes {
		t.Run(name, func(t *testing.T) {
			fake := &llm.Fake{Default: &reply}
			var w warnings
			p := augment.New(fake, w.add)
			p.Timeout = 20 * time.Millisecond

			res := p.Augment(context.Background(), snapshot(), nil)
			assert.Equal(t, augment.Degraded, res.State)
			assert.Nil(t, res.Analysis)
			assert.Len(t, w.msgs, 5)
			assert.Equal(t, res.Warnings, w.msgs)
		})
	}
}

func TestAugmentEmptyRecommendationsOnlyDegrades(t *testing.T) {
	failed := llm.Reply{Err: errors.New("dial tcp: connection refused")}
	replies := map[string]llm.Reply{
		augment.PhaseReadme:          failed,
		augment.PhaseCommits:         failed,
		augment.PhaseCommunity:       failed,
		augment.PhaseRecommendations: {JSON: `{"recommendations": []}`, Tokens: 10},
	}
	var w warnings
	p := augment.New(llm.NewFake(replies), w.add)

	res := p.Augment(context.Background(), snapshot(), nil)
	assert.Equal(t, augment.Degraded, res.State)
	assert.Nil(t, res.Analysis)
	require.Len(t, w.msgs, 4)
	assert.Contains(t, w.msgs[3], "deterministic results only")
	assert.Equal(t, res.Warnings, w.msgs)
}

func TestAugmentTimeoutIsPerRequest(t *testing.T) {
	replies := allOK()
	replies[augment.PhaseReadme] = llm.Reply{Block: true}
	p := augment.New(llm.NewFake(replies), nil)
	p.Timeout = 30 * time.Millisecond

	start := time.Now()
	res := p.Augment(context.Background(), snapshot(), nil)
	assert.Less(t, time.Since(start), 5*time.Second)
	require.Equal(t, augment.Augmented, res.State)
	assert.Nil(t, res.Analysis.Readme)
	assert.Contains(t, res.Warnings[0], "timed out")
}

func TestAugmentRecommendationsNeverNil(t *testing.T) {
	replies := allOK()
	replies[augment.PhaseRecommendations] = llm.Reply{Err: errors.New("nope")}
	res := augment.New(llm.NewFake(replies), nil).Augment(context.Background(), snapshot(), nil)
	require.Equal(t, augment.Augmented, res.State)
	assert.NotNil(t, res.Analysis.Recommendations)
	assert.Empty(t, res.Analysis.Recommendations)
}

func TestAugmentBoundsExcerpts(t *testing.T) {
	s := snapshot()
	for range 80 {
		s.Commits = append(s.Commits, model.Commit{Message: "chore: bump dependencies"})
	}
	rec := &recordingBackend{Fake: llm.NewFake(allOK())}
	augment.New(rec, nil).Augment(context.Background(), s, nil)

	in, ok := rec.input(augment.PhaseCommits)
	require.True(t, ok)
	assert.Len(t, in["subjects"], 50)
}

type recordingBackend struct {
	*llm.Fake
	mu     sync.Mutex
	inputs map[string]map[string]any
}

func (r *recordingBackend) GenerateJSON(ctx context.Context, prompt string, input any) (llm.Response, error) {
	raw, err := jsonRoundTrip(input)
	if err == nil {
		r.mu.Lock()
		if r.inputs == nil {
			r.inputs = map[string]map[string]any{}
		}
		r.inputs[llm.PhaseFrom(ctx)] = raw
		r.mu.Unlock()
	}
	return r.Fake.GenerateJSON(ctx, prompt, input)
}

func (r *recordingBackend) input(phase string) (map[string]any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.inputs[phase]
	return in, ok
}
