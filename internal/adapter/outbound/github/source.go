// Package github loads deployment configuration files stored in a GitHub
// repository, addressed as github://owner/repo/path/to/file[@ref].
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

const scheme = "github://"

// Location identifies one file in a repository.
type Location struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
}

// IsURL reports whether s uses the github:// scheme.
func IsURL(s string) bool {
	return strings.HasPrefix(s, scheme)
}

// ParseLocation parses a github:// URL.
func ParseLocation(githubURL string) (Location, error) {
	if !IsURL(githubURL) {
		return Location{}, fmt.Errorf("invalid GitHub URL format: %s", githubURL)
	}

	rest := strings.TrimPrefix(githubURL, scheme)
	var loc Location
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest, loc.Ref = rest[:at], rest[at+1:]
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Location{}, fmt.Errorf("invalid GitHub URL format: expected github://owner/repo/path/to/file")
	}
	loc.Owner, loc.Repo, loc.Path = parts[0], parts[1], parts[2]
	return loc, nil
}

// APIPath returns the contents API path for the location.
func (l Location) APIPath() string {
	p := fmt.Sprintf("repos/%s/%s/contents/%s", l.Owner, l.Repo, l.Path)
	if l.Ref != "" {
		p += "?ref=" + url.QueryEscape(l.Ref)
	}
	return p
}

// Runner executes the gh CLI and returns its stdout.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// Source fetches files through the authenticated gh CLI.
type Source struct {
	run Runner
}

// NewSource returns a Source. A nil runner uses the gh binary on PATH.
func NewSource(run Runner) *Source {
	if run == nil {
		run = runGH
	}
	return &Source{run: run}
}

// Fetch returns the decoded contents of the file at githubURL.
func (s *Source) Fetch(ctx context.Context, githubURL string) ([]byte, error) {
	loc, err := ParseLocation(githubURL)
	if err != nil {
		return nil, err
	}

	out, err := s.run(ctx, "api", loc.APIPath(), "--jq", ".content")
	if err != nil {
		return nil, err
	}

	encoded := strings.TrimSpace(string(out))
	if encoded == "" {
		return nil, fmt.Errorf("empty response from GitHub for %s", githubURL)
	}
	// The contents API wraps base64 at 60 columns.
	encoded = strings.ReplaceAll(encoded, "\\n", "")
	encoded = strings.ReplaceAll(encoded, "\n", "")

	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 content: %w", err)
	}
	return content, nil
}

func runGH(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "gh", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("gh CLI is not installed. Please install it from https://cli.github.com/")
		}
		if strings.Contains(stderr.String(), "not logged in") {
			return nil, fmt.Errorf("gh CLI is not authenticated. Please run 'gh auth login' first")
		}
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("gh command failed: %s", strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("gh command failed: %w", err)
	}
	return stdout.Bytes(), nil
}
