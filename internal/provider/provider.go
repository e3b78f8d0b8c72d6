// internal/provider/provider.go
package provider

import (
	"context"
	"errors"

	"github.com/dsablic/repomaint/internal/model"
)

var ErrNotFound = errors.New("repository not found")

// Source builds a repository snapshot for a reference.
type Source interface {
	Snapshot(ctx context.Context, ref Ref) (*model.Snapshot, error)
}

// Options bound what a source collects.
type Options struct {
	// CommitLimit caps the sampled commit history.
	CommitLimit int
	// IssueExcerpts caps how many recent issues are captured for AI context.
	IssueExcerpts int
	// ContributorLimit caps contributor pagination.
	ContributorLimit int
	// RequestsPerSecond paces GitHub API calls; 0 means no pacing.
	RequestsPerSecond float64
	// Warn receives non-fatal collection problems.
	Warn func(string)
}

// DefaultOptions returns the standard collection bounds.
func DefaultOptions() Options {
	return Options{
		CommitLimit:      model.CommitSampleLimit,
		IssueExcerpts:    15,
		ContributorLimit: 500,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CommitLimit <= 0 || o.CommitLimit > model.CommitSampleLimit {
		o.CommitLimit = d.CommitLimit
	}
	if o.IssueExcerpts <= 0 {
		o.IssueExcerpts = d.IssueExcerpts
	}
	if o.ContributorLimit <= 0 {
		o.ContributorLimit = d.ContributorLimit
	}
	return o
}

func (o Options) warn(msg string) {
	if o.Warn != nil {
		o.Warn(msg)
	}
}
