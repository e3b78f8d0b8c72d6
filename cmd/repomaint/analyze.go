package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dsablic/repomaint/internal/augment"
	"github.com/dsablic/repomaint/internal/auth"
	"github.com/dsablic/repomaint/internal/config"
	"github.com/dsablic/repomaint/internal/llm"
	"github.com/dsablic/repomaint/internal/model"
	"github.com/dsablic/repomaint/internal/output"
	"github.com/dsablic/repomaint/internal/provider"
	"github.com/dsablic/repomaint/internal/scoring"
	"github.com/dsablic/repomaint/internal/ui"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <owner/name | url | path>",
		Short: "Score the maintainability of a repository",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	f := cmd.Flags()
	f.String("format", "text", "Output format: "+strings.Join(config.Formats, ", "))
	f.String("output-file", "", "Write the report to a file instead of stdout")
	f.Float64("fail-under", 0, "Exit with code 2 when the overall score is below this value")
	f.Bool("parallel", true, "Run the metric calculators concurrently")
	f.Int("commit-limit", model.CommitSampleLimit, "Recent commits to sample")
	f.String("github-url", "", "GitHub API base URL (for GitHub Enterprise)")
	f.Float64("github-rate-limit", 0, "Maximum GitHub API requests per second (0 = unlimited)")
	f.Bool("ai", false, "Add AI commentary to the report")
	f.String("ai-backend", llm.BackendGemini, "AI backend: gemini, openai or cli")
	f.String("ai-model", "", "AI model (backend default when empty)")
	f.String("ai-base-url", "", "Override the AI backend endpoint")
	f.String("ai-tool", "", "CLI tool for the cli backend (auto-detected when empty)")
	f.Duration("ai-timeout", augment.DefaultTimeout, "Timeout for each AI sub-request")
	return cmd
}

// loadConfig merges flags, environment and the config file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := config.New()
	for name, key := range config.FlagKeys {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			if err := v.BindPFlag(key, fl); err != nil {
				return config.Config{}, fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}
	path, _ := cmd.Flags().GetString("config")
	return config.Load(v, path)
}

// warnings collects non-fatal problems so they print after the progress
// display has finished.
type warnings struct {
	mu   sync.Mutex
	msgs []string
}

func (w *warnings) add(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msg)
}

func (w *warnings) flush(out io.Writer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	yellow := color.New(color.FgYellow)
	for _, m := range w.msgs {
		yellow.Fprintln(out, "warning: "+m)
	}
	w.msgs = nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ref, err := provider.ParseRef(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	warn := &warnings{}
	defer warn.flush(os.Stderr)
	store := auth.NewFileStore(auth.DefaultStorePath())

	src, err := newSource(ref, cfg, store, provider.Options{
		CommitLimit:       cfg.CommitLimit,
		RequestsPerSecond: cfg.GitHub.RateLimit,
		Warn:              warn.add,
	})
	if err != nil {
		return err
	}
	engine, err := scoring.NewEngine(scoring.Options{Policy: &cfg.Policy, Parallel: cfg.Parallel})
	if err != nil {
		return err
	}

	total := 3
	if cfg.AI.Enabled {
		total = 4
	}
	progress, stop := startProgress(ref.String(), total)
	step := 0
	stage := func(s int) {
		step++
		progress.Stage(step, total, ui.StageLabels[s])
	}

	stage(ui.StageFetch)
	snap, err := src.Snapshot(ctx, ref)
	if err != nil {
		stop()
		return fmt.Errorf("collect %s: %w", ref, err)
	}

	var aug scoring.Augmenter
	if cfg.AI.Enabled {
		backend, err := newBackend(ctx, cfg, store)
		if err != nil {
			warn.add(fmt.Sprintf("AI augmentation disabled: %v", err))
		} else {
			defer backend.Close()
			p := augment.New(backend, warn.add)
			p.Timeout = cfg.AI.Timeout
			aug = p
		}
	}

	stage(ui.StageScore)
	if aug != nil {
		stage(ui.StageAugment)
	}
	report, _ := engine.Analyze(ctx, snap, aug)

	stage(ui.StageRender)
	progress.Done(report.FullName)
	stop()

	if cfg.OutputFile != "" {
		if err := output.WriteFile(cfg.OutputFile, cfg.Format, report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s report to %s\n", cfg.Format, cfg.OutputFile)
	} else if err := output.Write(cmd.OutOrStdout(), cfg.Format, report); err != nil {
		return err
	}

	return checkFailUnder(report.OverallScore, cfg.FailUnder)
}

// checkFailUnder returns an exit-code-2 error when a threshold is set and
// the score falls below it.
func checkFailUnder(score, threshold float64) error {
	if threshold <= 0 || score >= threshold {
		return nil
	}
	return &exitError{code: 2, msg: fmt.Sprintf("overall score %.2f is below --fail-under %.2f", score, threshold)}
}

// startProgress picks the TUI on a terminal and plain lines otherwise. stop
// waits for the TUI to exit.
func startProgress(name string, total int) (ui.Reporter, func()) {
	if !ui.IsTTY() {
		return ui.NewPlainProgress(func(msg string) { fmt.Fprintln(os.Stderr, msg) }), func() {}
	}
	p := ui.RunTUI(name, total)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Run()
	}()
	var once sync.Once
	return ui.TUIReporter{Program: p}, func() {
		once.Do(func() {
			p.Quit()
			<-done
		})
	}
}

func newSource(ref provider.Ref, cfg config.Config, store *auth.FileStore, opts provider.Options) (provider.Source, error) {
	token := cfg.GitHub.Token
	if token == "" {
		if cred, err := store.LoadWithEnv(auth.ProviderGitHub); err == nil {
			token = cred.Token
		}
	}
	if ref.Kind == provider.RefGitHub {
		return provider.NewGitHub(token, cfg.GitHub.APIURL, nil, opts)
	}
	if ref.Kind == provider.RefRemote {
		// the GitHub token is only meaningful for GitHub-hosted clones
		token = ""
	}
	return provider.NewLocal(token, opts), nil
}

// apiKeyEnv lists vendor environment variables checked after the
// REPOMAINT_* variables and the credential store.
var apiKeyEnv = map[string]string{
	llm.BackendGemini: "GEMINI_API_KEY",
	llm.BackendOpenAI: "OPENAI_API_KEY",
}

func newBackend(ctx context.Context, cfg config.Config, store *auth.FileStore) (llm.Backend, error) {
	lc := cfg.LLM()
	name := strings.ToLower(lc.Backend)
	if lc.APIKey == "" && name != llm.BackendCLI {
		cred, err := store.LoadWithEnv(name)
		switch {
		case err == nil:
			lc.APIKey = cred.Token
		case errors.Is(err, auth.ErrNoCredentials):
			lc.APIKey = os.Getenv(apiKeyEnv[name])
		default:
			return nil, err
		}
	}
	return llm.New(ctx, lc)
}
