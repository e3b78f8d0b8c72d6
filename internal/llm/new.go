package llm

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by New.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendCLI    = "cli"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	Model   string
	APIKey  string
	BaseURL string
	// Tool is the CLI name for the cli backend; empty means auto-detect.
	Tool string
}

// New builds the backend named by cfg.Backend.
func New(ctx context.Context, cfg Config) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
	case BackendOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case BackendCLI:
		return NewCLI(cfg.Tool)
	default:
		return nil, fmt.Errorf("unknown AI backend %q (use gemini, openai or cli)", cfg.Backend)
	}
}
