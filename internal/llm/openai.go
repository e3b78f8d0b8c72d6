package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAI calls an OpenAI-compatible Chat Completions endpoint (OpenAI, Groq,
// Ollama) and asks for a JSON object.
type OpenAI struct {
	http    *http.Client
	apiKey  string
	model   string
	baseURL string
}

func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
		if apiKey == "" {
			return nil, errors.New("openai: API key is required")
		}
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		http:    &http.Client{Timeout: 120 * time.Second},
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (o *OpenAI) Name() string { return "openai:" + o.model }
func (o *OpenAI) Close() error { return nil }

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float32           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateJSON sends prompt as the system message and input as the user message.
func (o *OpenAI) GenerateJSON(ctx context.Context, prompt string, input any) (Response, error) {
	in, err := inputBlock(input)
	if err != nil {
		return Response{}, err
	}

	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: in},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.http.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Response{}, &StatusError{
			Backend:    "openai",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return Response{}, ErrInvalidJSON
	}
	raw, err := extractObject(out.Choices[0].Message.Content)
	if err != nil {
		return Response{}, err
	}

	tokens := out.Usage.TotalTokens
	if tokens == 0 {
		tokens = CountTokens(prompt) + CountTokens(in) + CountTokens(string(raw))
	}
	return Response{Raw: raw, TokensUsed: tokens}, nil
}
