package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/dsablic/repomaint/internal/analyzer"
	"github.com/dsablic/repomaint/internal/license"
	"github.com/dsablic/repomaint/internal/model"
)

// readmeNames are tried in order at the repository root.
var readmeNames = []string{"README.md", "README", "README.markdown", "README.rst", "README.txt", "readme.md", "Readme.md"}

// Local reads snapshots from git checkouts on disk. Remote references are
// cloned into a temporary directory first.
type Local struct {
	opts  Options
	token string
	langs *analyzer.Languages
}

// NewLocal creates a Local source. token authenticates clones of RefRemote
// references and may be empty.
func NewLocal(token string, opts Options) *Local {
	return &Local{opts: opts.withDefaults(), token: token, langs: analyzer.NewLanguages()}
}

// Snapshot reads the checkout named by ref. Stars, forks and issue counts
// are not available from git, so the snapshot is marked LocalOnly.
func (l *Local) Snapshot(ctx context.Context, ref Ref) (*model.Snapshot, error) {
	switch ref.Kind {
	case RefLocal:
		return l.read(ctx, ref.Path, ref)
	case RefRemote, RefGitHub:
		dir, cleanup, err := analyzer.NewCloner(l.token, l.opts.CommitLimit).Clone(ctx, ref.URL)
		if err != nil {
			return nil, fmt.Errorf("clone %s: %w", ref, err)
		}
		defer cleanup()
		return l.read(ctx, dir, ref)
	default:
		return nil, fmt.Errorf("unsupported reference kind %d", ref.Kind)
	}
}

func (l *Local) read(ctx context.Context, dir string, ref Ref) (*model.Snapshot, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: not a git repository: %w", dir, ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}

	s := &model.Snapshot{
		Owner:     ref.Owner,
		Name:      ref.Name,
		URL:       ref.URL,
		LocalOnly: true,
	}
	if remote, err := repo.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
		if r, err := ParseRef(remote.Config().URLs[0]); err == nil && r.Kind != RefLocal {
			s.Owner, s.Name = r.Owner, r.Name
			if s.URL == "" {
				s.URL = r.URL
			}
		}
	}

	s.Branches, err = branchNames(repo)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		s.Files, s.Commits, s.Contributors = []string{}, []model.Commit{}, []string{}
	case err != nil:
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	default:
		if err := l.readHead(repo, head.Hash(), s); err != nil {
			return nil, err
		}
	}

	lang, err := l.langs.Primary(ctx, dir)
	if err != nil {
		l.opts.warn(fmt.Sprintf("language detection for %s failed: %v", dir, err))
	}
	s.PrimaryLanguage = lang
	s.License = license.Detect(dir)
	s.Issues = []model.IssueExcerpt{}
	return s, nil
}

func (l *Local) readHead(repo *git.Repository, hash plumbing.Hash, s *model.Snapshot) error {
	iter, err := repo.Log(&git.LogOptions{From: hash, Order: git.LogOrderCommitterTime})
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	defer iter.Close()

	seen := make(map[string]bool)
	s.Commits = make([]model.Commit, 0, l.opts.CommitLimit)
	s.Contributors = []string{}
	err = iter.ForEach(func(c *object.Commit) error {
		if len(s.Commits) >= l.opts.CommitLimit {
			return storer.ErrStop
		}
		s.Commits = append(s.Commits, model.Commit{
			Hash:      c.Hash.String(),
			Message:   strings.TrimRight(c.Message, "\n"),
			Author:    c.Author.Name,
			Timestamp: c.Author.When,
		})
		key := strings.ToLower(c.Author.Email)
		if key == "" {
			key = c.Author.Name
		}
		if !seen[key] && len(s.Contributors) < l.opts.ContributorLimit {
			seen[key] = true
			s.Contributors = append(s.Contributors, c.Author.Name)
		}
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return fmt.Errorf("read history: %w", err)
	}
	if len(s.Commits) > 0 {
		s.CreatedAt = s.Commits[len(s.Commits)-1].Timestamp
		s.UpdatedAt = s.Commits[0].Timestamp
	}

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return fmt.Errorf("read HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("read HEAD tree: %w", err)
	}
	s.Files = treeFiles(tree)
	s.Readme = readmeText(tree)
	return nil
}

// treeFiles lists top-level entries plus files directly under the
// community directories.
func treeFiles(tree *object.Tree) []string {
	files := make([]string, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		files = append(files, e.Name)
	}
	for _, dir := range communityDirs {
		sub, err := tree.Tree(dir)
		if err != nil {
			continue
		}
		for _, e := range sub.Entries {
			if e.Mode.IsFile() {
				files = append(files, path.Join(dir, e.Name))
			}
		}
	}
	return files
}

func readmeText(tree *object.Tree) string {
	for _, name := range readmeNames {
		f, err := tree.File(name)
		if err != nil {
			continue
		}
		r, err := f.Reader()
		if err != nil {
			continue
		}
		b, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}
		return string(b)
	}
	return ""
}

// branchNames returns local branches plus origin's remote-tracking
// branches, without duplicates and without origin/HEAD.
func branchNames(repo *git.Repository) ([]string, error) {
	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer refs.Close()

	set := make(map[string]bool)
	err = refs.ForEach(func(r *plumbing.Reference) error {
		name := r.Name()
		switch {
		case name.IsBranch():
			set[name.Short()] = true
		case name.IsRemote() && strings.HasPrefix(name.String(), "refs/remotes/origin/"):
			short := strings.TrimPrefix(name.String(), "refs/remotes/origin/")
			if short != "HEAD" {
				set[short] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}

	branches := make([]string, 0, len(set))
	for b := range set {
		branches = append(branches, b)
	}
	sort.Strings(branches)
	return branches, nil
}
