package llm_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dsablic/repomaint/internal/llm"
)

func TestSupportedCLIs(t *testing.T) {
	clis := llm.SupportedCLIs()
	want := []string{"claude", "codex", "gemini"}

	if len(clis) != len(want) {
		t.Fatalf("expected %d CLIs, got %d", len(want), len(clis))
	}
	for i, name := range want {
		if clis[i] != name {
			t.Errorf("SupportedCLIs()[%d] = %q, want %q", i, clis[i], name)
		}
	}
}

func TestDetectCLI_Fallback(t *testing.T) {
	lookup := func(name string) (string, error) {
		return "", fmt.Errorf("not found: %s", name)
	}

	_, err := llm.DetectCLIWith(lookup)
	if err == nil {
		t.Fatal("expected error when no CLI is found")
	}
	if !strings.Contains(err.Error(), "no supported AI CLI found") {
		t.Errorf("unexpected error message: %s", err)
	}
}

func TestDetectCLI_PrefersOrder(t *testing.T) {
	lookup := func(name string) (string, error) {
		if name == "claude" {
			return "", fmt.Errorf("not found: %s", name)
		}
		return "/usr/local/bin/" + name, nil
	}

	cli, err := llm.DetectCLIWith(lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cli != "codex" {
		t.Errorf("expected codex (first available in order), got %q", cli)
	}
}

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		cli      string
		wantName string
		wantArgs []string
	}{
		{cli: "claude", wantName: "claude", wantArgs: []string{"-p", "score this"}},
		{cli: "codex", wantName: "codex", wantArgs: []string{"exec", "score this"}},
		{cli: "gemini", wantName: "gemini", wantArgs: []string{"-p", "score this"}},
		{cli: "unknown", wantName: "claude", wantArgs: []string{"-p", "score this"}},
	}

	for _, tt := range tests {
		t.Run(tt.cli, func(t *testing.T) {
			name, args := llm.BuildArgs(tt.cli, "score this")
			if name != tt.wantName {
				t.Errorf("BuildArgs(%q, ...) name = %q, want %q", tt.cli, name, tt.wantName)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("BuildArgs(%q, ...) args len = %d, want %d", tt.cli, len(args), len(tt.wantArgs))
			}
			for i, a := range tt.wantArgs {
				if args[i] != a {
					t.Errorf("BuildArgs(%q, ...) args[%d] = %q, want %q", tt.cli, i, args[i], a)
				}
			}
		})
	}
}

func TestCLIGenerateJSON(t *testing.T) {
	var gotName string
	var gotStdin string
	run := func(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
		gotName = name
		gotStdin = string(stdin)
		return []byte("Here you go:\n```json\n{\"clarity\": 80}\n```\n"), nil
	}

	b := llm.NewCLIWith("codex", run)
	resp, err := b.GenerateJSON(context.Background(), "rate it", map[string]string{"readme": "# Hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotName != "codex" {
		t.Errorf("expected codex to be executed, got %q", gotName)
	}
	if !strings.Contains(gotStdin, "# Hello") {
		t.Errorf("expected input JSON on stdin, got %q", gotStdin)
	}
	if string(resp.Raw) != `{"clarity":80}` {
		t.Errorf("unexpected raw response %s", resp.Raw)
	}
	if resp.TokensUsed <= 0 {
		t.Error("expected a token estimate")
	}
	if b.Name() != "cli:codex" {
		t.Errorf("unexpected name %q", b.Name())
	}
}

func TestCLIGenerateJSONFailures(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
	}{
		{name: "exit error", err: errors.New("claude failed: exit status 1")},
		{name: "prose only", out: "I cannot help with that."},
		{name: "empty", out: ""},
		{name: "truncated", out: `{"clarity": 8`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := func(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
				return []byte(tt.out), tt.err
			}
			_, err := llm.NewCLIWith("claude", run).GenerateJSON(context.Background(), "p", nil)
			if err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
