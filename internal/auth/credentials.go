// internal/auth/credentials.go
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

var ErrNoCredentials = errors.New("no credentials found")

// Known credential names. GitHub tokens authenticate the repository source;
// the others are API keys for AI backends.
const (
	ProviderGitHub = "github"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Providers lists every credential name accepted by the store.
var Providers = []string{ProviderGitHub, ProviderGemini, ProviderOpenAI}

type Credentials struct {
	Token     string    `json:"token"`
	Username  string    `json:"username,omitempty"`
	SavedAt   time.Time `json:"saved_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (c Credentials) Expired() bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(c.ExpiresAt)
}

type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func DefaultStorePath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "repomaint", "credentials.json")
}

// ValidProvider reports whether name is one of Providers.
func ValidProvider(name string) bool {
	return slices.Contains(Providers, name)
}

func (s *FileStore) Save(provider string, cred Credentials) error {
	if !ValidProvider(provider) {
		return fmt.Errorf("unsupported provider %q (use %s)", provider, strings.Join(Providers, ", "))
	}
	if cred.SavedAt.IsZero() {
		cred.SavedAt = time.Now().UTC()
	}

	all, _ := s.loadAll()
	if all == nil {
		all = make(map[string]Credentials)
	}
	all[provider] = cred

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (s *FileStore) Load(provider string) (Credentials, error) {
	all, err := s.loadAll()
	if err != nil {
		return Credentials{}, ErrNoCredentials
	}
	cred, ok := all[provider]
	if !ok || cred.Token == "" || cred.Expired() {
		return Credentials{}, ErrNoCredentials
	}
	return cred, nil
}

// EnvKey is the environment variable that overrides the stored credential.
func EnvKey(provider string) string {
	return fmt.Sprintf("REPOMAINT_%s_TOKEN", strings.ToUpper(provider))
}

// LoadWithEnv resolves a credential from the environment, then the store,
// then (for GitHub only) the gh CLI.
func (s *FileStore) LoadWithEnv(provider string) (Credentials, error) {
	if token := os.Getenv(EnvKey(provider)); token != "" {
		return Credentials{Token: token}, nil
	}
	cred, err := s.Load(provider)
	if err == nil {
		return cred, nil
	}
	if provider == ProviderGitHub {
		if token, ok := GhCLIToken(); ok {
			return Credentials{Token: token}, nil
		}
	}
	return Credentials{}, ErrNoCredentials
}

func (s *FileStore) loadAll() (map[string]Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var all map[string]Credentials
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}
