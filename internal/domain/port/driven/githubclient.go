package driven

import (
	"context"

	"github.com/andrespaulino/livestats/internal/domain/model"
)

// GitHubClient defines the driven port for the GitHub API. Credentials are
// passed per call so they can be resolved fresh on every invocation.
type GitHubClient interface {
	// LatestCommit returns the most recent commit touching path in repoFullName
	// ("owner/repo"). Returns ErrEmptyResult when no commit matches.
	LatestCommit(ctx context.Context, token, repoFullName, path string) (model.LastUpdatedTimeData, error)

	// RepositoryInfo returns repository metadata via a single GraphQL query.
	RepositoryInfo(ctx context.Context, token, owner, repo string) (model.GithubRepositoryLastUpdated, error)
}
