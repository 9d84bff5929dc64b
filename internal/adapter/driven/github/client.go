// Package github implements the GitHubClient port using the go-github library
// for REST calls and a plain GraphQL POST for repository metadata.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port. It holds no credentials;
// the token is supplied on every call.
type Client struct {
	gh         *gh.Client
	httpClient *http.Client
	graphqlURL string // "https://api.github.com/graphql" in production; derived from baseURL in tests.
}

// NewClient creates a GitHub API client whose requests are bounded by timeout.
func NewClient(timeout time.Duration) *Client {
	httpClient := &http.Client{Timeout: timeout}

	return &Client{
		gh:         gh.NewClient(httpClient),
		httpClient: httpClient,
		graphqlURL: "https://api.github.com/graphql",
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers can intercept GraphQL requests.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:         client,
		httpClient: httpClient,
		graphqlURL: graphqlU.String(),
	}, nil
}

// LatestCommit lists commits touching path with a page size of one and maps
// the newest entry.
func (c *Client) LatestCommit(ctx context.Context, token, repoFullName, path string) (model.LastUpdatedTimeData, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return model.LastUpdatedTimeData{}, err
	}

	opts := &gh.CommitsListOptions{
		Path:        path,
		ListOptions: gh.ListOptions{PerPage: 1},
	}

	commits, resp, err := c.gh.WithAuthToken(token).Repositories.ListCommits(ctx, owner, repo, opts)
	if err != nil {
		return model.LastUpdatedTimeData{}, fmt.Errorf("listing commits for %s:%s: %w", repoFullName, path, classifyRESTError(err))
	}

	logRateLimit(resp, repoFullName, len(commits))

	if len(commits) == 0 {
		return model.LastUpdatedTimeData{}, fmt.Errorf("no commits for %s:%s: %w", repoFullName, path, driven.ErrEmptyResult)
	}

	return mapCommit(commits[0])
}

// mapCommit converts a go-github RepositoryCommit into LastUpdatedTimeData.
func mapCommit(commit *gh.RepositoryCommit) (model.LastUpdatedTimeData, error) {
	date := commit.GetCommit().GetCommitter().GetDate()
	htmlURL := commit.GetHTMLURL()

	if date.IsZero() || htmlURL == "" {
		return model.LastUpdatedTimeData{}, fmt.Errorf("commit %q missing committer date or html_url: %w", commit.GetSHA(), driven.ErrShapeMismatch)
	}

	return model.LastUpdatedTimeData{
		LastUpdatedTime: date.UTC(),
		LatestCommitURL: htmlURL,
	}, nil
}

// classifyRESTError wraps go-github failures with the port's error taxonomy.
func classifyRESTError(err error) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &driven.StatusError{Endpoint: "github commits", Status: ghErr.Response.StatusCode}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", driven.ErrShapeMismatch, err)
	}

	return err
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, repoFullName string, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"repo", repoFullName,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
