// internal/analyzer/clone.go
package analyzer

import (
	"context"
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// Cloner clones repositories into temporary directories with enough history
// to sample recent commits.
type Cloner struct {
	token string
	depth int
}

// NewCloner creates a Cloner. If token is non-empty it is used for HTTP
// basic-auth. depth limits the fetched history; 0 clones everything.
func NewCloner(token string, depth int) *Cloner {
	return &Cloner{token: token, depth: depth}
}

// Clone clones the repository at cloneURL into a temporary directory.
// It returns the directory path, a cleanup function that removes the directory,
// and any error. The caller must call cleanup when done with the directory.
func (c *Cloner) Clone(ctx context.Context, cloneURL string) (dir string, cleanup func(), err error) {
	tmpDir, err := os.MkdirTemp("", "repomaint-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}

	cleanupFn := func() {
		os.RemoveAll(tmpDir)
	}

	opts := &git.CloneOptions{
		URL:   cloneURL,
		Depth: c.depth,
		Tags:  git.NoTags,
	}

	if c.token != "" {
		opts.Auth = &http.BasicAuth{
			Username: "x-access-token",
			Password: c.token,
		}
	}

	_, err = git.PlainCloneContext(ctx, tmpDir, false, opts)
	if err != nil {
		cleanupFn()
		return "", nil, fmt.Errorf("git clone: %w", err)
	}

	return tmpDir, cleanupFn, nil
}
