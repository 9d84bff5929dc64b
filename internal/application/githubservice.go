package application

import (
	"context"
	"path"
	"time"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

// ContentRepo identifies the repository holding the site's content files.
type ContentRepo struct {
	FullName string // "owner/repo"
	Root     string // Directory prefixed to every content path, e.g. "src/content".
	Branch   string // Branch used in fallback history links.
}

// GitHubService provides last-updated data for content files and metadata for
// repositories. Every method returns a usable value, falling back to
// synthesized data when GitHub cannot be reached.
type GitHubService struct {
	client   driven.GitHubClient
	creds    CredentialSource
	observer driven.Observer
	content  ContentRepo
	now      func() time.Time
}

// NewGitHubService creates a GitHubService with the required dependencies.
func NewGitHubService(client driven.GitHubClient, creds CredentialSource, observer driven.Observer, content ContentRepo) *GitHubService {
	return &GitHubService{
		client:   client,
		creds:    creds,
		observer: observer,
		content:  content,
		now:      time.Now,
	}
}

// LastUpdatedTime returns the most recent commit time and URL for filePath,
// which is relative to the content root. Dot-dot segments cannot climb above
// the root.
func (s *GitHubService) LastUpdatedTime(ctx context.Context, filePath string) model.LastUpdatedTimeData {
	contentPath := path.Join(s.content.Root, path.Clean("/"+filePath))
	token := s.creds.Lookup(ctx, model.ServiceGitHub, model.KeyToken)

	return fetchWithFallback(ctx, s.observer, source[model.LastUpdatedTimeData]{
		integration: model.IntegrationGitHub,
		operation:   "last_updated_time",
		target:      contentPath,
		ready:       token != "",
		fetch: func(ctx context.Context) (model.LastUpdatedTimeData, error) {
			return s.client.LatestCommit(ctx, token, s.content.FullName, contentPath)
		},
		fallback: func() model.LastUpdatedTimeData {
			return fallbackCommit(s.content.FullName, s.content.Branch, contentPath, s.now().UTC())
		},
	})
}

// RepositoryInfo returns aggregate metadata for owner/repo.
func (s *GitHubService) RepositoryInfo(ctx context.Context, owner, repo string) model.GithubRepositoryLastUpdated {
	token := s.creds.Lookup(ctx, model.ServiceGitHub, model.KeyToken)

	return fetchWithFallback(ctx, s.observer, source[model.GithubRepositoryLastUpdated]{
		integration: model.IntegrationGitHub,
		operation:   "repository_info",
		target:      owner + "/" + repo,
		ready:       token != "",
		fetch: func(ctx context.Context) (model.GithubRepositoryLastUpdated, error) {
			return s.client.RepositoryInfo(ctx, token, owner, repo)
		},
		fallback: func() model.GithubRepositoryLastUpdated {
			return fallbackRepository(owner, repo, s.now().UTC())
		},
	})
}
