package augment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dsablic/repomaint/internal/model"
)

// fields is a decoded JSON object whose values are looked up lazily.
type fields map[string]json.RawMessage

func decodeObject(raw json.RawMessage) (fields, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("empty response")
	}
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	if f == nil {
		return nil, fmt.Errorf("response is null")
	}
	return f, nil
}

// score reads a required numeric field and clamps it to [0,100]. Numbers
// sent as strings are accepted.
func (f fields) score(key string) (float64, error) {
	raw, ok := f[key]
	if !ok || string(raw) == "null" {
		return 0, fmt.Errorf("missing required field %q", key)
	}
	v, ok := parseNumber(raw)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", key)
	}
	return model.ClampScore(v), nil
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// list reads an optional list of strings. Absent, null or malformed values
// yield an empty list; a bare string becomes a one-element list.
func (f fields) list(key string) []string {
	out := []string{}
	raw, ok := f[key]
	if !ok {
		return out
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
		return out
	}
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func (f fields) text(key string) string {
	var s string
	if raw, ok := f[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return strings.TrimSpace(s)
}

func parseReadme(raw json.RawMessage) (model.ReadmeAnalysis, error) {
	f, err := decodeObject(raw)
	if err != nil {
		return model.ReadmeAnalysis{}, err
	}
	var a model.ReadmeAnalysis
	if a.Clarity, err = f.score("clarity"); err != nil {
		return a, err
	}
	if a.Completeness, err = f.score("completeness"); err != nil {
		return a, err
	}
	if a.Structure, err = f.score("structure"); err != nil {
		return a, err
	}
	a.Strengths = f.list("strengths")
	a.Weaknesses = f.list("weaknesses")
	a.Suggestions = f.list("suggestions")
	return a, nil
}

func parseCommits(raw json.RawMessage) (model.CommitAnalysis, error) {
	f, err := decodeObject(raw)
	if err != nil {
		return model.CommitAnalysis{}, err
	}
	var a model.CommitAnalysis
	if a.Clarity, err = f.score("clarity"); err != nil {
		return a, err
	}
	if a.Consistency, err = f.score("consistency"); err != nil {
		return a, err
	}
	if a.Informativeness, err = f.score("informativeness"); err != nil {
		return a, err
	}
	a.Strengths = f.list("strengths")
	a.Weaknesses = f.list("weaknesses")
	a.Suggestions = f.list("suggestions")
	return a, nil
}

func parseCommunity(raw json.RawMessage) (model.CommunityAnalysis, error) {
	f, err := decodeObject(raw)
	if err != nil {
		return model.CommunityAnalysis{}, err
	}
	var a model.CommunityAnalysis
	if a.Tone, err = f.score("tone"); err != nil {
		return a, err
	}
	if a.Inclusiveness, err = f.score("inclusiveness"); err != nil {
		return a, err
	}
	if a.Responsiveness, err = f.score("responsiveness"); err != nil {
		return a, err
	}
	a.PositiveSignals = f.list("positiveSignals")
	a.Concerns = f.list("concerns")
	a.Suggestions = f.list("suggestions")
	return a, nil
}

// defaultConfidence applies to recommendations that omit a confidence.
const defaultConfidence = 50

func parseRecommendations(raw json.RawMessage) ([]model.AIRecommendation, error) {
	f, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	items, ok := f["recommendations"]
	if !ok || string(items) == "null" {
		return nil, fmt.Errorf("missing required field %q", "recommendations")
	}
	var objs []fields
	if err := json.Unmarshal(items, &objs); err != nil {
		return nil, fmt.Errorf("field %q is not a list of objects", "recommendations")
	}

	recs := []model.AIRecommendation{}
	for _, o := range objs {
		title := o.text("title")
		if title == "" {
			continue
		}
		confidence := float64(defaultConfidence)
		if c, err := o.score("confidence"); err == nil {
			confidence = c
		}
		category := o.text("category")
		if category == "" {
			category = "general"
		}
		recs = append(recs, model.AIRecommendation{
			Title:       title,
			Description: o.text("description"),
			Impact:      NormalizeImpact(o.text("impact")),
			Confidence:  confidence,
			Category:    strings.ToLower(category),
		})
	}
	return recs, nil
}

// NormalizeImpact maps free-form impact text to HIGH, MEDIUM or LOW.
// Anything unrecognized is MEDIUM.
func NormalizeImpact(s string) model.Impact {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH", "H", "CRITICAL":
		return model.ImpactHigh
	case "LOW", "L", "MINOR":
		return model.ImpactLow
	default:
		return model.ImpactMedium
	}
}
