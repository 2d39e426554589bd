// Package github wraps the GitHub read API used for repository analysis:
// repository metadata, recursive trees, file contents, directory listings
// and code search. All calls are plain request/response; the client keeps
// no state beyond the underlying HTTP client.
//
// When a token is configured requests are authenticated, which raises
// GitHub's rate ceiling from 60 to 5000 requests/hour. Code search always
// requires authentication.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	gogithub "github.com/google/go-github/v66/github"
)

// Client is a thin wrapper over the go-github client returning the app's
// own content types.
type Client struct {
	gh *gogithub.Client
}

// NewClient creates a GitHub client. token may be empty; unauthenticated
// requests fall back to the anonymous rate ceiling.
func NewClient(token string) *Client {
	gh := gogithub.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	return &Client{gh: gh}
}

// SetBaseURL points the client at a different API root. Used by tests to
// target an httptest server.
func (c *Client) SetBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	c.gh.BaseURL = u
	return nil
}

// GetRepository returns metadata for owner/repo.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, mapError(err, resp, fmt.Sprintf("repository %q", owner+"/"+repo))
	}
	return convertRepository(r), nil
}

// GetRepositoryTree returns the recursive file tree for a branch. An empty
// branch resolves to the repository's default branch first.
func (c *Client) GetRepositoryTree(ctx context.Context, owner, repo, branch string) (*Tree, error) {
	if branch == "" {
		r, err := c.GetRepository(ctx, owner, repo)
		if err != nil {
			return nil, err
		}
		branch = r.DefaultBranch
	}

	t, resp, err := c.gh.Git.GetTree(ctx, owner, repo, branch, true)
	if err != nil {
		return nil, mapError(err, resp, fmt.Sprintf("branch %q", branch))
	}

	tree := &Tree{SHA: t.GetSHA(), Truncated: t.GetTruncated()}
	for _, e := range t.Entries {
		tree.Entries = append(tree.Entries, TreeItem{
			Path: e.GetPath(),
			Mode: e.GetMode(),
			Type: e.GetType(),
			SHA:  e.GetSHA(),
			Size: e.GetSize(),
		})
	}
	return tree, nil
}

// GetFileContent returns the decoded content of a file. branch may be empty
// for the default branch.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, branch string) (string, error) {
	opts := &gogithub.RepositoryContentGetOptions{Ref: branch}
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return "", mapError(err, resp, fmt.Sprintf("file %q", path))
	}
	if file == nil {
		return "", fmt.Errorf("path %q is a directory, not a file", path)
	}
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("unable to decode file content: %w", err)
	}
	return content, nil
}

// GetDirectoryContents lists the entries of a directory. An empty path
// lists the repository root.
func (c *Client) GetDirectoryContents(ctx context.Context, owner, repo, path, branch string) ([]ContentItem, error) {
	opts := &gogithub.RepositoryContentGetOptions{Ref: branch}
	_, dir, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, mapError(err, resp, fmt.Sprintf("path %q", path))
	}

	items := make([]ContentItem, 0, len(dir))
	for _, e := range dir {
		items = append(items, ContentItem{
			Name: e.GetName(),
			Path: e.GetPath(),
			Type: e.GetType(),
			Size: e.GetSize(),
		})
	}
	return items, nil
}

// SearchCode searches code within owner/repo.
func (c *Client) SearchCode(ctx context.Context, owner, repo, query string) ([]SearchResult, error) {
	q := fmt.Sprintf("%s repo:%s/%s", query, owner, repo)
	res, resp, err := c.gh.Search.Code(ctx, q, &gogithub.SearchOptions{
		ListOptions: gogithub.ListOptions{PerPage: 100},
	})
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, errors.New("code search requires authentication, set a GitHub token")
		}
		return nil, mapError(err, resp, "code search")
	}

	results := make([]SearchResult, 0, len(res.CodeResults))
	for _, item := range res.CodeResults {
		results = append(results, SearchResult{
			Path: item.GetPath(),
			Name: item.GetName(),
			URL:  item.GetHTMLURL(),
		})
	}
	return results, nil
}

// SearchRepositories searches public repositories by query.
func (c *Client) SearchRepositories(ctx context.Context, query string, limit int) ([]Repository, error) {
	if limit <= 0 {
		limit = 10
	}
	res, resp, err := c.gh.Search.Repositories(ctx, query, &gogithub.SearchOptions{
		ListOptions: gogithub.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, mapError(err, resp, "repository search")
	}

	repos := make([]Repository, 0, len(res.Repositories))
	for _, r := range res.Repositories {
		repos = append(repos, *convertRepository(r))
	}
	return repos, nil
}

func convertRepository(r *gogithub.Repository) *Repository {
	return &Repository{
		ID:            r.GetID(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		Owner:         r.GetOwner().GetLogin(),
		HTMLURL:       r.GetHTMLURL(),
		DefaultBranch: r.GetDefaultBranch(),
		Language:      r.GetLanguage(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		Topics:        r.Topics,
	}
}

// mapError converts go-github failures into the user-facing messages the
// rest of the app (and its error-to-status mapping) keys on.
func mapError(err error, resp *gogithub.Response, subject string) error {
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return errors.New("GitHub API rate limit exceeded")
	}
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s not found", subject)
		case http.StatusForbidden:
			return errors.New("GitHub API rate limit exceeded")
		}
	}
	return fmt.Errorf("GitHub API error: %w", err)
}
