package auth

import (
	"errors"
	"path/filepath"
	"testing"
)

func stubGh(t *testing.T, out string, err error) {
	t.Helper()
	orig := ghCommand
	ghCommand = func(args ...string) ([]byte, error) { return []byte(out), err }
	t.Cleanup(func() { ghCommand = orig })
}

func TestGhCLIToken(t *testing.T) {
	stubGh(t, "gho_abc123\n", nil)
	token, ok := GhCLIToken()
	if !ok || token != "gho_abc123" {
		t.Errorf("expected gho_abc123, got %q (ok=%v)", token, ok)
	}
}

func TestGhCLITokenNotInstalled(t *testing.T) {
	stubGh(t, "", errors.New("exec: \"gh\": executable file not found"))
	if _, ok := GhCLIToken(); ok {
		t.Error("expected no token when gh is missing")
	}
}

func TestGhCLITokenEmpty(t *testing.T) {
	stubGh(t, "  \n", nil)
	if _, ok := GhCLIToken(); ok {
		t.Error("expected no token for blank output")
	}
}

func TestLoadWithEnvFallsBackToGh(t *testing.T) {
	t.Setenv("REPOMAINT_GITHUB_TOKEN", "")
	t.Setenv("REPOMAINT_GEMINI_TOKEN", "")
	stubGh(t, "from-gh", nil)
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	cred, err := store.LoadWithEnv(ProviderGitHub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred.Token != "from-gh" {
		t.Errorf("expected from-gh, got %s", cred.Token)
	}

	if _, err := store.LoadWithEnv(ProviderGemini); err != ErrNoCredentials {
		t.Errorf("gh fallback must only apply to github, got %v", err)
	}
}
