package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

const repoInfoQuery = `query GetRepoInfo($username: String!, $repositoryName: String!) {
	repository(owner: $username, name: $repositoryName) {
		name
		description
		forkCount
		stargazerCount
		url
		pushedAt
		updatedAt
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// repoInfoNode is the untrusted repository object. Every field is optional
// so a partial payload decodes and is rejected by mapRepository instead.
type repoInfoNode struct {
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	ForkCount      *int       `json:"forkCount"`
	StargazerCount *int       `json:"stargazerCount"`
	URL            *string    `json:"url"`
	PushedAt       *time.Time `json:"pushedAt"`
	UpdatedAt      *time.Time `json:"updatedAt"`
}

// repoInfoResponse represents the expected shape of the GetRepoInfo response.
type repoInfoResponse struct {
	Data struct {
		Repository *repoInfoNode `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// RepositoryInfo queries the GitHub GraphQL API for repository metadata in a
// single round trip.
func (c *Client) RepositoryInfo(ctx context.Context, token, owner, repo string) (model.GithubRepositoryLastUpdated, error) {
	repoFullName := owner + "/" + repo

	reqBody := graphqlRequest{
		Query: repoInfoQuery,
		Variables: map[string]any{
			"username":       owner,
			"repositoryName": repo,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return model.GithubRepositoryLastUpdated{}, fmt.Errorf("marshaling repository query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return model.GithubRepositoryLastUpdated{}, fmt.Errorf("creating repository query request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("bearer %s", token))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.GithubRepositoryLastUpdated{}, fmt.Errorf("repository query for %s: %w", repoFullName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.GithubRepositoryLastUpdated{}, fmt.Errorf("repository query for %s: %w",
			repoFullName, &driven.StatusError{Endpoint: "github graphql", Status: resp.StatusCode})
	}

	var gqlResp repoInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return model.GithubRepositoryLastUpdated{}, fmt.Errorf("decoding repository response for %s: %w: %v",
			repoFullName, driven.ErrShapeMismatch, err)
	}

	if len(gqlResp.Errors) > 0 {
		return model.GithubRepositoryLastUpdated{}, fmt.Errorf("repository query for %s: %s",
			repoFullName, gqlResp.Errors[0].Message)
	}

	return mapRepository(gqlResp.Data.Repository)
}

// mapRepository converts the untrusted repository node into the view model.
// A null description is allowed; anything else missing is a shape mismatch.
func mapRepository(node *repoInfoNode) (model.GithubRepositoryLastUpdated, error) {
	if node == nil {
		return model.GithubRepositoryLastUpdated{}, fmt.Errorf("repository missing from response: %w", driven.ErrShapeMismatch)
	}

	if node.Name == nil || node.URL == nil || node.ForkCount == nil || node.StargazerCount == nil ||
		node.PushedAt == nil || node.UpdatedAt == nil {
		return model.GithubRepositoryLastUpdated{}, fmt.Errorf("repository fields incomplete: %w", driven.ErrShapeMismatch)
	}

	var description string
	if node.Description != nil {
		description = *node.Description
	}

	return model.GithubRepositoryLastUpdated{
		Name:           *node.Name,
		Description:    description,
		ForkCount:      *node.ForkCount,
		StargazerCount: *node.StargazerCount,
		URL:            *node.URL,
		PushedAt:       node.PushedAt.UTC(),
		UpdatedAt:      node.UpdatedAt.UTC(),
	}, nil
}
