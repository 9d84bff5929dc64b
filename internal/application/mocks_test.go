package application

import (
	"context"
	"sync"

	"github.com/andrespaulino/livestats/internal/domain/model"
)

// --- Mock credential source ---

type mockCredentials map[string]string

func (m mockCredentials) Lookup(_ context.Context, service, key string) string {
	return m[CredentialKey(service, key)]
}

func allCredentials() mockCredentials {
	return mockCredentials{
		CredentialKey(model.ServiceGitHub, model.KeyToken):         "gh-token",
		CredentialKey(model.ServiceSpotify, model.KeyClientID):     "client-id",
		CredentialKey(model.ServiceSpotify, model.KeyClientSecret): "client-secret",
		CredentialKey(model.ServiceSpotify, model.KeyRefreshToken): "refresh-token",
		CredentialKey(model.ServiceMonkeytype, model.KeyApeKey):    "ape-key",
	}
}

// --- Mock GitHub client ---

type mockGitHubClient struct {
	commit      model.LastUpdatedTimeData
	commitErr   error
	repo        model.GithubRepositoryLastUpdated
	repoErr     error
	panicOnCall bool

	calls     int
	lastToken string
	lastPath  string
}

func (m *mockGitHubClient) LatestCommit(_ context.Context, token, _, path string) (model.LastUpdatedTimeData, error) {
	m.calls++
	m.lastToken = token
	m.lastPath = path
	if m.panicOnCall {
		panic("boom")
	}
	return m.commit, m.commitErr
}

func (m *mockGitHubClient) RepositoryInfo(_ context.Context, token, _, _ string) (model.GithubRepositoryLastUpdated, error) {
	m.calls++
	m.lastToken = token
	if m.panicOnCall {
		panic("boom")
	}
	return m.repo, m.repoErr
}

// --- Mock Monkeytype client ---

type mockMonkeytypeClient struct {
	results []model.TypingResult
	err     error
	calls   int
}

func (m *mockMonkeytypeClient) PersonalBests(_ context.Context, _ string) ([]model.TypingResult, error) {
	m.calls++
	return m.results, m.err
}

// --- Mock Spotify client ---

type mockSpotifyClient struct {
	token       string
	tokenErr    error
	playing     model.SpotifyData
	playingErr  error
	recent      model.SpotifyData
	recentErr   error
	panicOnCall bool

	tokenCalls   int
	playingCalls int
	recentCalls  int
}

func (m *mockSpotifyClient) AccessToken(_ context.Context, _ model.SpotifyCredentials) (string, error) {
	m.tokenCalls++
	return m.token, m.tokenErr
}

func (m *mockSpotifyClient) CurrentlyPlaying(_ context.Context, _ string) (model.SpotifyData, error) {
	m.playingCalls++
	if m.panicOnCall {
		panic("boom")
	}
	return m.playing, m.playingErr
}

func (m *mockSpotifyClient) RecentlyPlayed(_ context.Context, _ string) (model.SpotifyData, error) {
	m.recentCalls++
	return m.recent, m.recentErr
}

func (m *mockSpotifyClient) totalCalls() int {
	return m.tokenCalls + m.playingCalls + m.recentCalls
}

// --- Recording observer ---

type recordingObserver struct {
	mu     sync.Mutex
	events []model.FetchEvent
}

func (r *recordingObserver) Observe(_ context.Context, event model.FetchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) kinds() []model.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

type panickingObserver struct{}

func (panickingObserver) Observe(context.Context, model.FetchEvent) {
	panic("observer exploded")
}

// --- Mock credential store ---

type mockCredentialStore struct {
	values map[string]string
	err    error
}

func (m *mockCredentialStore) Set(_ context.Context, service, key, plaintext string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[CredentialKey(service, key)] = plaintext
	return m.err
}

func (m *mockCredentialStore) Get(_ context.Context, service, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[CredentialKey(service, key)], nil
}

func (m *mockCredentialStore) List(context.Context) ([]model.Credential, error) {
	return nil, m.err
}

func (m *mockCredentialStore) Delete(_ context.Context, service, key string) error {
	delete(m.values, CredentialKey(service, key))
	return m.err
}
