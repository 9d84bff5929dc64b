package model

import "time"

// GithubRepositoryLastUpdated holds aggregate metadata for a GitHub repository.
type GithubRepositoryLastUpdated struct {
	Name           string
	Description    string
	ForkCount      int
	StargazerCount int
	URL            string
	PushedAt       time.Time
	UpdatedAt      time.Time
}
