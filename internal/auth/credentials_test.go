// internal/auth/credentials_test.go
package auth_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dsablic/repomaint/internal/auth"
)

func TestCredentialsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := auth.NewFileStore(filepath.Join(dir, "credentials.json"))

	cred := auth.Credentials{
		Token:     "test-token",
		Username:  "octocat",
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	if err := store.Save("gemini", cred); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := store.Load("gemini")
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.Token != "test-token" {
		t.Errorf("expected test-token, got %s", loaded.Token)
	}
	if loaded.Username != "octocat" {
		t.Errorf("expected octocat, got %s", loaded.Username)
	}
	if loaded.SavedAt.IsZero() {
		t.Error("expected SavedAt to be stamped on save")
	}
}

func TestCredentialsMissing(t *testing.T) {
	dir := t.TempDir()
	store := auth.NewFileStore(filepath.Join(dir, "credentials.json"))

	_, err := store.Load("openai")
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestCredentialsExpired(t *testing.T) {
	dir := t.TempDir()
	store := auth.NewFileStore(filepath.Join(dir, "credentials.json"))

	cred := auth.Credentials{Token: "old", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := store.Save("openai", cred); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if _, err := store.Load("openai"); err != auth.ErrNoCredentials {
		t.Errorf("expected ErrNoCredentials for expired token, got %v", err)
	}
}

func TestCredentialsUnknownProvider(t *testing.T) {
	dir := t.TempDir()
	store := auth.NewFileStore(filepath.Join(dir, "credentials.json"))

	if err := store.Save("bitbucket", auth.Credentials{Token: "x"}); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestCredentialsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	store := auth.NewFileStore(filepath.Join(dir, "credentials.json"))

	if err := store.Save("gemini", auth.Credentials{Token: "stored"}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	t.Setenv("REPOMAINT_GEMINI_TOKEN", "env-token")

	cred, err := store.LoadWithEnv("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cred.Token != "env-token" {
		t.Errorf("expected env-token, got %s", cred.Token)
	}
}

func TestEnvKey(t *testing.T) {
	if got := auth.EnvKey("openai"); got != "REPOMAINT_OPENAI_TOKEN" {
		t.Errorf("expected REPOMAINT_OPENAI_TOKEN, got %s", got)
	}
}

func TestCredentialsFilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "credentials.json")
	store := auth.NewFileStore(path)

	cred := auth.Credentials{Token: "secret"}
	if err := store.Save("github", cred); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected permissions 0600, got %o", info.Mode().Perm())
	}
}
