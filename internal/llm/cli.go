package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// supportedCLIs is the ordered list of AI CLI tools we can invoke.
var supportedCLIs = []string{"claude", "codex", "gemini"}

// SupportedCLIs returns the list of supported AI CLI tool names.
func SupportedCLIs() []string {
	out := make([]string, len(supportedCLIs))
	copy(out, supportedCLIs)
	return out
}

// LookupFunc resolves a command name to its path. Compatible with exec.LookPath.
type LookupFunc func(name string) (string, error)

// DetectCLI finds the first supported AI CLI available on the system PATH.
func DetectCLI() (string, error) {
	return DetectCLIWith(exec.LookPath)
}

// DetectCLIWith finds the first supported AI CLI using the provided lookup function.
func DetectCLIWith(lookup LookupFunc) (string, error) {
	for _, cli := range supportedCLIs {
		if _, err := lookup(cli); err == nil {
			return cli, nil
		}
	}
	return "", fmt.Errorf("no supported AI CLI found; install one of: %s", strings.Join(supportedCLIs, ", "))
}

// BuildArgs returns the command name and argument slice for a non-interactive
// invocation of the given CLI with the provided prompt.
func BuildArgs(cli, prompt string) (string, []string) {
	switch cli {
	case "codex":
		return "codex", []string{"exec", prompt}
	case "gemini":
		return "gemini", []string{"-p", prompt}
	default: // "claude" and fallback
		return "claude", []string{"-p", prompt}
	}
}

// RunFunc executes name with args, feeding stdin, and returns stdout.
type RunFunc func(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error)

func execRun(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// CLI runs a locally installed AI CLI. The prompt is passed as an argument
// and the input JSON on stdin.
type CLI struct {
	tool string
	run  RunFunc
}

// NewCLI returns a backend for tool, or the first supported CLI on PATH when
// tool is empty.
func NewCLI(tool string) (*CLI, error) {
	if tool == "" {
		detected, err := DetectCLI()
		if err != nil {
			return nil, err
		}
		tool = detected
	}
	return NewCLIWith(tool, execRun), nil
}

// NewCLIWith returns a backend that executes through run.
func NewCLIWith(tool string, run RunFunc) *CLI {
	return &CLI{tool: tool, run: run}
}

func (c *CLI) Name() string { return "cli:" + c.tool }
func (c *CLI) Close() error { return nil }

func (c *CLI) GenerateJSON(ctx context.Context, prompt string, input any) (Response, error) {
	in, err := inputBlock(input)
	if err != nil {
		return Response{}, err
	}
	full := prompt + "\n\nThe input JSON is provided on stdin. Respond with a single JSON object only."

	name, args := BuildArgs(c.tool, full)
	out, err := c.run(ctx, name, args, []byte(in))
	if err != nil {
		return Response{}, err
	}
	raw, err := extractObject(string(out))
	if err != nil {
		return Response{}, err
	}
	return Response{Raw: raw, TokensUsed: CountTokens(full) + CountTokens(in) + CountTokens(string(out))}, nil
}
