package auth

import (
	"os/exec"
	"strings"
)

// ghCommand runs the gh CLI. Replaced in tests.
var ghCommand = func(args ...string) ([]byte, error) {
	return exec.Command("gh", args...).Output()
}

// GhCLIToken attempts to get a GitHub token from the gh CLI tool.
// Returns the token and true if successful, or empty string and false otherwise.
func GhCLIToken() (string, bool) {
	out, err := ghCommand("auth", "token", "--hostname", "github.com")
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", false
	}
	return token, true
}
