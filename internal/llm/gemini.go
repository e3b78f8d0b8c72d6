package llm

import (
	"context"
	"errors"

	genai "google.golang.org/genai"
)

// Gemini is a thin wrapper around the official genai client.
type Gemini struct {
	cli   *genai.Client
	model string
}

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Gemini{cli: cli, model: model}, nil
}

func (g *Gemini) Name() string { return "gemini:" + g.model }
func (g *Gemini) Close() error { return nil }

// GenerateJSON sends the concatenated prompt/input and requests application/json.
func (g *Gemini) GenerateJSON(ctx context.Context, prompt string, input any) (Response, error) {
	in, err := inputBlock(input)
	if err != nil {
		return Response{}, err
	}
	full := prompt + "\n\n" + in

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return Response{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Response{}, ErrInvalidJSON
	}
	raw, err := extractObject(resp.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return Response{}, err
	}

	tokens := CountTokens(full) + CountTokens(string(raw))
	if resp.UsageMetadata != nil && resp.UsageMetadata.TotalTokenCount > 0 {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return Response{Raw: raw, TokensUsed: tokens}, nil
}
