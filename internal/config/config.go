// Package config loads repomaint settings from .repomaint.yaml, REPOMAINT_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dsablic/repomaint/internal/augment"
	"github.com/dsablic/repomaint/internal/llm"
	"github.com/dsablic/repomaint/internal/metrics"
	"github.com/dsablic/repomaint/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. REPOMAINT_AI_BACKEND.
const EnvPrefix = "REPOMAINT"

// Formats are the accepted report formats.
var Formats = []string{"text", "json", "yaml", "markdown"}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"format":            "format",
	"output-file":       "output-file",
	"fail-under":        "fail-under",
	"parallel":          "parallel",
	"commit-limit":      "commit-limit",
	"github-url":        "github.api-url",
	"github-rate-limit": "github.rate-limit",
	"ai":                "ai.enabled",
	"ai-backend":        "ai.backend",
	"ai-model":          "ai.model",
	"ai-base-url":       "ai.base-url",
	"ai-tool":           "ai.tool",
	"ai-timeout":        "ai.timeout",
}

// Config holds the settings of one run.
type Config struct {
	Format      string         `mapstructure:"format"`
	OutputFile  string         `mapstructure:"output-file"`
	FailUnder   float64        `mapstructure:"fail-under"`
	Parallel    bool           `mapstructure:"parallel"`
	CommitLimit int            `mapstructure:"commit-limit"`
	GitHub      GitHubConfig   `mapstructure:"github"`
	AI          AIConfig       `mapstructure:"ai"`
	Policy      metrics.Policy `mapstructure:"policy"`
}

// GitHubConfig configures the GitHub data source.
type GitHubConfig struct {
	Token  string `mapstructure:"token"`
	APIURL string `mapstructure:"api-url"`
	// RateLimit paces API requests per second; 0 disables pacing.
	RateLimit float64 `mapstructure:"rate-limit"`
}

// AIConfig configures the optional augmentation pipeline.
type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Backend string        `mapstructure:"backend"`
	Model   string        `mapstructure:"model"`
	APIKey  string        `mapstructure:"api-key"`
	BaseURL string        `mapstructure:"base-url"`
	Tool    string        `mapstructure:"tool"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Format:      "text",
		Parallel:    true,
		CommitLimit: model.CommitSampleLimit,
		AI: AIConfig{
			Backend: llm.BackendGemini,
			Timeout: augment.DefaultTimeout,
		},
		Policy: metrics.DefaultPolicy(),
	}
}

// New returns a viper instance carrying the defaults and environment
// bindings. Flags are bound onto it by the caller.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("format", d.Format)
	v.SetDefault("output-file", "")
	v.SetDefault("fail-under", d.FailUnder)
	v.SetDefault("parallel", d.Parallel)
	v.SetDefault("commit-limit", d.CommitLimit)
	v.SetDefault("github.token", "")
	v.SetDefault("github.api-url", "")
	v.SetDefault("github.rate-limit", d.GitHub.RateLimit)
	v.SetDefault("ai.enabled", d.AI.Enabled)
	v.SetDefault("ai.backend", d.AI.Backend)
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api-key", "")
	v.SetDefault("ai.base-url", "")
	v.SetDefault("ai.tool", "")
	v.SetDefault("ai.timeout", d.AI.Timeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (path, or .repomaint.yaml in the working
// directory or home directory when path is empty), then decodes and
// validates the merged settings.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".repomaint")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every setting, including the scoring policy.
func (c Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("invalid format %q (use %s)", c.Format, strings.Join(Formats, ", "))
	}
	if c.FailUnder < 0 || c.FailUnder > 100 {
		return fmt.Errorf("fail-under must be within [0, 100], got %g", c.FailUnder)
	}
	if c.CommitLimit < 1 || c.CommitLimit > model.CommitSampleLimit {
		return fmt.Errorf("commit-limit must be within [1, %d], got %d", model.CommitSampleLimit, c.CommitLimit)
	}
	if c.GitHub.RateLimit < 0 {
		return fmt.Errorf("github.rate-limit must not be negative, got %g", c.GitHub.RateLimit)
	}
	if c.AI.Enabled {
		switch strings.ToLower(c.AI.Backend) {
		case llm.BackendGemini, llm.BackendOpenAI, llm.BackendCLI:
		default:
			return fmt.Errorf("unknown AI backend %q (use gemini, openai or cli)", c.AI.Backend)
		}
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %s", c.AI.Timeout)
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	return nil
}

// LLM returns the backend settings for llm.New.
func (c Config) LLM() llm.Config {
	return llm.Config{
		Backend: c.AI.Backend,
		Model:   c.AI.Model,
		APIKey:  c.AI.APIKey,
		BaseURL: c.AI.BaseURL,
		Tool:    c.AI.Tool,
	}
}
