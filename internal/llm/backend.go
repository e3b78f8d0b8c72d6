// Package llm wraps the language-model backends used for optional report
// commentary. Every backend answers a prompt plus a JSON input with a JSON
// object.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// Response is the raw JSON object returned by a backend together with the
// number of tokens the request consumed (estimated when the backend does not
// report usage).
type Response struct {
	Raw        json.RawMessage
	TokensUsed int
}

// Backend is a language-model collaborator.
type Backend interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (Response, error)
	Close() error
}

// StatusError is returned by HTTP backends for non-2xx responses.
type StatusError struct {
	Backend    string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %s", e.Backend, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %s: %s", e.Backend, e.Status, e.Body)
}

// Unauthorized reports whether the backend rejected the credentials.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

type phaseKey struct{}

// WithPhase tags ctx with the name of the sub-request being made.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, phaseKey{}, phase)
}

// PhaseFrom returns the phase set by WithPhase, or "".
func PhaseFrom(ctx context.Context) string {
	p, _ := ctx.Value(phaseKey{}).(string)
	return p
}

// CountTokens is a rough token estimate: whitespace-separated words, or a
// quarter of the byte length for text without spaces.
func CountTokens(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	if words := strings.Fields(text); len(words) > 1 {
		return len(words)
	}
	return max(len(text)/4, 1)
}

// inputBlock renders input the way every backend appends it to the prompt.
func inputBlock(input any) (string, error) {
	in, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal input: %w", err)
	}
	return "[INPUT JSON]\n" + string(in), nil
}

// extractObject trims code fences and surrounding prose from model output
// and returns the JSON object inside it.
func extractObject(text string) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return nil, ErrInvalidJSON
	}
	raw := []byte(text[start : end+1])
	if !json.Valid(raw) {
		return nil, ErrInvalidJSON
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(compact.Bytes()), nil
}
