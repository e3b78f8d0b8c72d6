package augment

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsablic/repomaint/internal/model"
)

func TestParseReadmeClampsAndDefaults(t *testing.T) {
	a, err := parseReadme(json.RawMessage(`{"clarity": 140, "completeness": -5, "structure": "72.5", "strengths": null, "weaknesses": "too short", "suggestions": ["", "add badges", 3]}`))
	require.NoError(t, err)
	assert.Equal(t, 100.0, a.Clarity)
	assert.Equal(t, 0.0, a.Completeness)
	assert.Equal(t, 72.5, a.Structure)
	assert.Equal(t, []string{}, a.Strengths)
	assert.Equal(t, []string{"too short"}, a.Weaknesses)
	assert.Equal(t, []string{"add badges"}, a.Suggestions)
}

func TestParseRequiredFields(t *testing.T) {
	_, err := parseCommits(json.RawMessage(`{"clarity": 50, "consistency": 50}`))
	assert.ErrorContains(t, err, `"informativeness"`)

	_, err = parseCommunity(json.RawMessage(`{"tone": null, "inclusiveness": 1, "responsiveness": 1}`))
	assert.ErrorContains(t, err, `"tone"`)

	_, err = parseReadme(json.RawMessage(`{"clarity": "high", "completeness": 1, "structure": 1}`))
	assert.ErrorContains(t, err, "not a number")

	_, err = parseRecommendations(json.RawMessage(`{"items": []}`))
	assert.ErrorContains(t, err, `"recommendations"`)
}

func TestParseRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{"", "null", "[1,2]", `"text"`, "42"} {
		_, err := parseReadme(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestParseRecommendations(t *testing.T) {
	recs, err := parseRecommendations(json.RawMessage(`{"recommendations": [
		{"title": "Close stale issues", "impact": "Low", "confidence": 250},
		{"title": "", "description": "dropped: no title"},
		{"title": "Adopt conventional commits", "impact": "huge", "category": "COMMITS"}
	]}`))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, model.ImpactLow, recs[0].Impact)
	assert.Equal(t, 100.0, recs[0].Confidence)
	assert.Equal(t, "general", recs[0].Category)

	assert.Equal(t, model.ImpactMedium, recs[1].Impact)
	assert.Equal(t, 50.0, recs[1].Confidence)
	assert.Equal(t, "commits", recs[1].Category)
}

func TestParseRecommendationsEmptyList(t *testing.T) {
	recs, err := parseRecommendations(json.RawMessage(`{"recommendations": []}`))
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestNormalizeImpact(t *testing.T) {
	tests := map[string]model.Impact{
		"HIGH": model.ImpactHigh, " high ": model.ImpactHigh, "critical": model.ImpactHigh,
		"medium": model.ImpactMedium, "": model.ImpactMedium, "enormous": model.ImpactMedium,
		"low": model.ImpactLow, "L": model.ImpactLow,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeImpact(in), in)
	}
}

func TestTruncate(t *testing.T) {
	s, cut := truncate("héllo wörld", 5)
	assert.Equal(t, "héllo", s)
	assert.True(t, cut)

	s, cut = truncate("short", 10)
	assert.Equal(t, "short", s)
	assert.False(t, cut)
}

func TestLimitsBoundIssues(t *testing.T) {
	s := &model.Snapshot{Name: "x"}
	for i := range 40 {
		s.Issues = append(s.Issues, model.IssueExcerpt{Number: i, Body: strings.Repeat("a", 2000)})
	}
	in := DefaultLimits().community(s)
	assert.Len(t, in.Issues, 15)
	assert.Len(t, in.Issues[0].Body, 600)

	r := DefaultLimits().readme(&model.Snapshot{Readme: strings.Repeat("b", 9000)})
	assert.Len(t, r.Readme, 8000)
	assert.True(t, r.Truncated)
}

func TestOutcome(t *testing.T) {
	ok := Success(3)
	v, present := ok.Get()
	assert.True(t, present)
	assert.Equal(t, 3, v)
	assert.Equal(t, "", ok.Reason())
	assert.Equal(t, 3, *ok.Ptr())

	missing := Unavailable[int]("")
	assert.False(t, missing.Available())
	assert.Equal(t, "unavailable", missing.Reason())
	assert.Nil(t, missing.Ptr())
}
