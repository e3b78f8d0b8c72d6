// internal/provider/github.go
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/sync/errgroup"

	"github.com/dsablic/repomaint/internal/license"
	"github.com/dsablic/repomaint/internal/model"
)

// communityDirs are listed in addition to the repository root; GitHub
// recognizes community health files in them.
var communityDirs = []string{".github", "docs"}

// GitHub reads repository snapshots through the GitHub REST API.
type GitHub struct {
	client *github.Client
	opts   Options
}

// NewGitHub creates a GitHub source. If baseURL is empty the public API is
// used. The HTTP client's transport is wrapped with a RateLimitTransport
// paced at opts.RequestsPerSecond.
func NewGitHub(token, baseURL string, httpClient *http.Client, opts Options) (*GitHub, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if _, ok := httpClient.Transport.(*RateLimitTransport); !ok {
		wrapped := *httpClient
		wrapped.Transport = &RateLimitTransport{Base: httpClient.Transport, ReqPerSec: opts.RequestsPerSecond}
		httpClient = &wrapped
	}

	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if baseURL != "" {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse GitHub API URL: %w", err)
		}
		client.BaseURL = u
	}
	return &GitHub{client: client, opts: opts.withDefaults()}, nil
}

// Snapshot fetches repository metadata, then the file listing, README,
// commits, branches, contributors and issues concurrently.
func (g *GitHub) Snapshot(ctx context.Context, ref Ref) (*model.Snapshot, error) {
	if ref.Kind != RefGitHub {
		return nil, fmt.Errorf("github source cannot read %s", ref)
	}
	owner, name := ref.Owner, ref.Name

	repo, resp, err := g.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if isStatus(resp, http.StatusNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", owner, name, ErrNotFound)
		}
		return nil, fmt.Errorf("github repository %s/%s: %w", owner, name, err)
	}

	s := &model.Snapshot{
		Owner:           repo.GetOwner().GetLogin(),
		Name:            repo.GetName(),
		Description:     repo.GetDescription(),
		URL:             repo.GetHTMLURL(),
		PrimaryLanguage: repo.GetLanguage(),
		License:         license.Normalize(repo.GetLicense().GetSPDXID()),
		Stars:           repo.GetStargazersCount(),
		Forks:           repo.GetForksCount(),
		CreatedAt:       repo.GetCreatedAt().Time,
		UpdatedAt:       repo.GetUpdatedAt().Time,
	}
	if s.Owner == "" {
		s.Owner = owner
	}
	if s.Name == "" {
		s.Name = name
	}
	owner, name = s.Owner, s.Name

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		files, err := g.files(ctx, owner, name)
		s.Files = files
		return err
	})
	eg.Go(func() error {
		readme, err := g.readme(ctx, owner, name)
		s.Readme = readme
		return err
	})
	eg.Go(func() error {
		commits, err := g.commits(ctx, owner, name)
		s.Commits = commits
		return err
	})
	eg.Go(func() error {
		branches, err := g.branches(ctx, owner, name)
		s.Branches = branches
		return err
	})
	eg.Go(func() error {
		contributors, err := g.contributors(ctx, owner, name)
		s.Contributors = contributors
		return err
	})
	eg.Go(func() error {
		s.OpenIssues, s.ClosedIssues = g.issueTotals(ctx, owner, name, repo.GetOpenIssuesCount())
		return nil
	})
	eg.Go(func() error {
		issues, err := g.issueExcerpts(ctx, owner, name)
		if err != nil {
			g.opts.warn(fmt.Sprintf("recent issues for %s/%s unavailable: %v", owner, name, err))
		}
		s.Issues = issues
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("github repository %s/%s: %w", owner, name, err)
	}
	return s, nil
}

func (g *GitHub) files(ctx context.Context, owner, name string) ([]string, error) {
	_, root, resp, err := g.client.Repositories.GetContents(ctx, owner, name, "", nil)
	if err != nil {
		if isStatus(resp, http.StatusNotFound) {
			return []string{}, nil // empty repository
		}
		return nil, fmt.Errorf("list contents: %w", err)
	}

	files := make([]string, 0, len(root))
	for _, c := range root {
		files = append(files, c.GetName())
	}
	for _, dir := range communityDirs {
		_, entries, resp, err := g.client.Repositories.GetContents(ctx, owner, name, dir, nil)
		if err != nil {
			if isStatus(resp, http.StatusNotFound) {
				continue
			}
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, c := range entries {
			if c.GetType() == "file" {
				files = append(files, dir+"/"+c.GetName())
			}
		}
	}
	return files, nil
}

func (g *GitHub) readme(ctx context.Context, owner, name string) (string, error) {
	rc, resp, err := g.client.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		if isStatus(resp, http.StatusNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("readme: %w", err)
	}
	content, err := rc.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode readme: %w", err)
	}
	return content, nil
}

func (g *GitHub) commits(ctx context.Context, owner, name string) ([]model.Commit, error) {
	raw, err := collect(g.opts.CommitLimit, func(page int) ([]*github.RepositoryCommit, *github.Response, error) {
		return g.client.Repositories.ListCommits(ctx, owner, name, &github.CommitsListOptions{
			ListOptions: github.ListOptions{Page: page, PerPage: 100},
		})
	})
	if err != nil {
		var er *github.ErrorResponse
		if errors.As(err, &er) && er.Response != nil && er.Response.StatusCode == http.StatusConflict {
			return []model.Commit{}, nil // empty repository
		}
		return nil, fmt.Errorf("list commits: %w", err)
	}

	commits := make([]model.Commit, 0, len(raw))
	for _, c := range raw {
		author := c.GetCommit().GetAuthor()
		commits = append(commits, model.Commit{
			Hash:      c.GetSHA(),
			Message:   c.GetCommit().GetMessage(),
			Author:    author.GetName(),
			Timestamp: author.GetDate().Time,
		})
	}
	return commits, nil
}

func (g *GitHub) branches(ctx context.Context, owner, name string) ([]string, error) {
	raw, err := collect(0, func(page int) ([]*github.Branch, *github.Response, error) {
		return g.client.Repositories.ListBranches(ctx, owner, name, &github.BranchListOptions{
			ListOptions: github.ListOptions{Page: page, PerPage: 100},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	branches := make([]string, 0, len(raw))
	for _, b := range raw {
		branches = append(branches, b.GetName())
	}
	return branches, nil
}

func (g *GitHub) contributors(ctx context.Context, owner, name string) ([]string, error) {
	raw, err := collect(g.opts.ContributorLimit, func(page int) ([]*github.Contributor, *github.Response, error) {
		return g.client.Repositories.ListContributors(ctx, owner, name, &github.ListContributorsOptions{
			ListOptions: github.ListOptions{Page: page, PerPage: 100},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list contributors: %w", err)
	}
	logins := make([]string, 0, len(raw))
	for _, c := range raw {
		logins = append(logins, c.GetLogin())
	}
	return logins, nil
}

// issueTotals counts open and closed issues (pull requests excluded) with
// the search API. When search is unavailable it falls back to the
// repository's open count, which includes pull requests.
func (g *GitHub) issueTotals(ctx context.Context, owner, name string, fallbackOpen int) (open, closed int) {
	count := func(state string) (int, error) {
		q := fmt.Sprintf("repo:%s/%s is:issue is:%s", owner, name, state)
		res, _, err := g.client.Search.Issues(ctx, q, &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}})
		if err != nil {
			return 0, err
		}
		return res.GetTotal(), nil
	}

	open, err := count("open")
	if err == nil {
		closed, err = count("closed")
	}
	if err != nil {
		g.opts.warn(fmt.Sprintf("issue search for %s/%s failed, using repository counters: %v", owner, name, err))
		return fallbackOpen, 0
	}
	return open, closed
}

func (g *GitHub) issueExcerpts(ctx context.Context, owner, name string) ([]model.IssueExcerpt, error) {
	raw, _, err := g.client.Issues.ListByRepo(ctx, owner, name, &github.IssueListByRepoOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 50},
	})
	if err != nil {
		return []model.IssueExcerpt{}, err
	}
	issues := make([]model.IssueExcerpt, 0, g.opts.IssueExcerpts)
	for _, is := range raw {
		if is.IsPullRequest() {
			continue
		}
		issues = append(issues, model.IssueExcerpt{
			Number:   is.GetNumber(),
			Title:    is.GetTitle(),
			Body:     is.GetBody(),
			State:    is.GetState(),
			Comments: is.GetComments(),
		})
		if len(issues) >= g.opts.IssueExcerpts {
			break
		}
	}
	return issues, nil
}

// collect follows GitHub pagination until limit items (0 = all) are read.
func collect[T any](limit int, fetch func(page int) ([]T, *github.Response, error)) ([]T, error) {
	var all []T
	page := 1
	for {
		items, resp, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if limit > 0 && len(all) >= limit {
			return all[:limit], nil
		}
		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		page = resp.NextPage
	}
}

func isStatus(resp *github.Response, code int) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == code
}
