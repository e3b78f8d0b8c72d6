package provider

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// RefKind says where a repository lives.
type RefKind int

const (
	// RefGitHub is a repository read through the GitHub API.
	RefGitHub RefKind = iota
	// RefLocal is a checkout on disk.
	RefLocal
	// RefRemote is a git URL on another host, cloned before reading.
	RefRemote
)

// Ref identifies the repository to analyze.
type Ref struct {
	Kind  RefKind
	Owner string
	Name  string
	// Path is the checkout directory for RefLocal.
	Path string
	// URL is the clone URL for RefRemote and RefGitHub.
	URL string
}

func (r Ref) String() string {
	switch r.Kind {
	case RefLocal:
		return r.Path
	case RefRemote:
		return r.URL
	default:
		return r.Owner + "/" + r.Name
	}
}

var (
	slugRe      = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)/([A-Za-z0-9._-]+)$`)
	githubSSHRe = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?/?$`)
)

// ParseRef accepts "owner/name", GitHub URLs (https, ssh or host-prefixed),
// other git URLs, and local directories. An existing directory wins over an
// owner/name slug with the same spelling.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, fmt.Errorf("empty repository reference")
	}

	if info, err := os.Stat(s); err == nil && info.IsDir() {
		abs, err := filepath.Abs(s)
		if err != nil {
			return Ref{}, fmt.Errorf("resolve %s: %w", s, err)
		}
		return Ref{Kind: RefLocal, Path: abs, Name: filepath.Base(abs)}, nil
	}

	if m := githubSSHRe.FindStringSubmatch(s); m != nil {
		return githubRef(m[1], m[2]), nil
	}

	if strings.HasPrefix(s, "github.com/") {
		s = "https://" + s
	}
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return Ref{}, fmt.Errorf("parse %s: %w", s, err)
		}
		if strings.EqualFold(u.Host, "github.com") || strings.EqualFold(u.Host, "www.github.com") {
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
				return Ref{}, fmt.Errorf("GitHub URL %s does not name a repository", s)
			}
			return githubRef(parts[0], strings.TrimSuffix(parts[1], ".git")), nil
		}
		owner, name := ownerRepo(u.Path)
		return Ref{Kind: RefRemote, URL: s, Owner: owner, Name: name}, nil
	}
	if strings.HasPrefix(s, "git@") {
		_, path, _ := strings.Cut(s, ":")
		owner, name := ownerRepo(path)
		return Ref{Kind: RefRemote, URL: s, Owner: owner, Name: name}, nil
	}

	if m := slugRe.FindStringSubmatch(s); m != nil {
		return githubRef(m[1], strings.TrimSuffix(m[2], ".git")), nil
	}
	return Ref{}, fmt.Errorf("cannot interpret %q as owner/name, URL or directory", s)
}

func githubRef(owner, name string) Ref {
	return Ref{
		Kind:  RefGitHub,
		Owner: owner,
		Name:  name,
		URL:   fmt.Sprintf("https://github.com/%s/%s.git", owner, name),
	}
}

// ownerRepo returns the last two path segments, without a .git suffix.
func ownerRepo(p string) (string, string) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	name := strings.TrimSuffix(parts[len(parts)-1], ".git")
	if len(parts) < 2 {
		return "", name
	}
	return parts[len(parts)-2], name
}
