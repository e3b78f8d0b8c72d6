package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsablic/repomaint/internal/config"
	"github.com/dsablic/repomaint/internal/metrics"
)

// chdirTemp moves into an empty directory so no .repomaint.yaml is found.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ".repomaint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.Parallel)
	assert.Equal(t, 100, cfg.CommitLimit)
	assert.Zero(t, cfg.GitHub.RateLimit)
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, "gemini", cfg.AI.Backend)
	assert.Equal(t, 45*time.Second, cfg.AI.Timeout)
	assert.Equal(t, metrics.DefaultPolicy(), cfg.Policy)
}

func TestLoadFileFromWorkingDirectory(t *testing.T) {
	dir := chdirTemp(t)
	writeConfig(t, dir, `
format: json
fail-under: 70
github:
  rate-limit: 2.5
ai:
  enabled: true
  backend: openai
  timeout: 10s
policy:
  issues:
    no-issues-score: 40
`)

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 70.0, cfg.FailUnder)
	assert.Equal(t, 2.5, cfg.GitHub.RateLimit)
	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, "openai", cfg.AI.Backend)
	assert.Equal(t, 10*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 40.0, cfg.Policy.Issues.NoIssuesScore)
	assert.Equal(t, metrics.DefaultPolicy().Issues.OpenIssueCeiling, cfg.Policy.Issues.OpenIssueCeiling,
		"unset policy fields keep their defaults")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	writeConfig(t, dir, "format: json\nai:\n  backend: openai\n")
	t.Setenv("REPOMAINT_FORMAT", "markdown")
	t.Setenv("REPOMAINT_AI_BACKEND", "cli")
	t.Setenv("REPOMAINT_COMMIT_LIMIT", "25")
	t.Setenv("REPOMAINT_GITHUB_RATE_LIMIT", "4")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.Format)
	assert.Equal(t, "cli", cfg.AI.Backend)
	assert.Equal(t, 25, cfg.CommitLimit)
	assert.Equal(t, 4.0, cfg.GitHub.RateLimit)
}

func TestExplicitOverridesEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("REPOMAINT_FORMAT", "markdown")

	v := config.New()
	v.Set("format", "yaml")
	cfg, err := config.Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
}

func TestExplicitConfigPathMustExist(t *testing.T) {
	dir := chdirTemp(t)

	_, err := config.Load(config.New(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"format", func(c *config.Config) { c.Format = "html" }},
		{"fail-under", func(c *config.Config) { c.FailUnder = 101 }},
		{"commit-limit", func(c *config.Config) { c.CommitLimit = 500 }},
		{"rate-limit", func(c *config.Config) { c.GitHub.RateLimit = -1 }},
		{"backend", func(c *config.Config) { c.AI.Enabled = true; c.AI.Backend = "mystery" }},
		{"timeout", func(c *config.Config) { c.AI.Timeout = 0 }},
		{"policy", func(c *config.Config) { c.Policy.Community.StarsWeight = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, config.Default().Validate())
}

func TestFlagKeysAreKnownSettings(t *testing.T) {
	v := config.New()
	for flag, key := range config.FlagKeys {
		assert.True(t, slices.Contains(v.AllKeys(), key), "flag %s maps to unknown key %s", flag, key)
	}
}
