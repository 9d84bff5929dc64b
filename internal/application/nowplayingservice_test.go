package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

var liveTrack = model.SpotifyData{
	IsPlaying:     true,
	SongURL:       "https://open.spotify.com/track/abc",
	Title:         "Digital Love",
	AlbumImageURL: "https://i.scdn.co/image/abc",
	Artist:        "Daft Punk",
}

var recentTrack = model.SpotifyData{
	SongURL:       "https://open.spotify.com/track/def",
	Title:         "Teardrop",
	AlbumImageURL: "https://i.scdn.co/image/def",
	Artist:        "Massive Attack",
}

func transitions(obs *recordingObserver) [][2]string {
	var out [][2]string
	for _, e := range obs.events {
		if e.Kind == model.EventLadderTransition {
			out = append(out, [2]string{e.From, e.To})
		}
	}
	return out
}

func TestNowPlaying_Playing(t *testing.T) {
	client := &mockSpotifyClient{token: "access", playing: liveTrack}
	obs := &recordingObserver{}
	svc := NewNowPlayingService(client, allCredentials(), obs)

	got := svc.Current(context.Background())

	assert.Equal(t, liveTrack, got)
	assert.True(t, got.IsPlaying)
	assert.Zero(t, client.recentCalls)
	assert.Equal(t, [][2]string{{"token_refresh", "now_playing"}}, transitions(obs))
}

func TestNowPlaying_IdleFallsThroughToRecent(t *testing.T) {
	client := &mockSpotifyClient{
		token:      "access",
		playingErr: driven.ErrNothingPlaying,
		recent:     recentTrack,
	}
	obs := &recordingObserver{}
	svc := NewNowPlayingService(client, allCredentials(), obs)

	got := svc.Current(context.Background())

	assert.False(t, got.IsPlaying)
	assert.Equal(t, recentTrack, got)
	assert.Equal(t, 1, client.recentCalls)
	assert.Equal(t, [][2]string{
		{"token_refresh", "now_playing"},
		{"now_playing", "recently_played"},
	}, transitions(obs))
}

func TestNowPlaying_RecentIsNeverMarkedPlaying(t *testing.T) {
	track := recentTrack
	track.IsPlaying = true
	client := &mockSpotifyClient{token: "access", playingErr: driven.ErrShapeMismatch, recent: track}
	svc := NewNowPlayingService(client, allCredentials(), nil)

	got := svc.Current(context.Background())

	assert.False(t, got.IsPlaying)
	assert.Equal(t, "Teardrop", got.Title)
}

func TestNowPlaying_Fallbacks(t *testing.T) {
	tests := []struct {
		name        string
		client      *mockSpotifyClient
		wantPlaying int
		wantRecent  int
	}{
		{
			name:   "token refresh rejected",
			client: &mockSpotifyClient{tokenErr: &driven.StatusError{Status: 400}},
		},
		{
			name:        "now playing server error",
			client:      &mockSpotifyClient{token: "access", playingErr: &driven.StatusError{Status: 500}},
			wantPlaying: 1,
		},
		{
			name: "nothing playing and no history",
			client: &mockSpotifyClient{
				token:      "access",
				playingErr: driven.ErrNothingPlaying,
				recentErr:  driven.ErrEmptyResult,
			},
			wantPlaying: 1,
			wantRecent:  1,
		},
		{
			name: "nothing playing and history fails",
			client: &mockSpotifyClient{
				token:      "access",
				playingErr: driven.ErrNothingPlaying,
				recentErr:  errors.New("connection reset"),
			},
			wantPlaying: 1,
			wantRecent:  1,
		},
		{
			name:        "panic in client",
			client:      &mockSpotifyClient{token: "access", panicOnCall: true},
			wantPlaying: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			svc := NewNowPlayingService(tt.client, allCredentials(), obs)

			got := svc.Current(context.Background())

			assert.Equal(t, FallbackTrack(), got)
			assert.Equal(t, 1, tt.client.tokenCalls)
			assert.Equal(t, tt.wantPlaying, tt.client.playingCalls)
			assert.Equal(t, tt.wantRecent, tt.client.recentCalls)
			require.NotEmpty(t, obs.events)
		})
	}
}

func TestNowPlaying_IncompleteCredentialsMakeNoCall(t *testing.T) {
	creds := allCredentials()
	delete(creds, CredentialKey(model.ServiceSpotify, model.KeyRefreshToken))
	client := &mockSpotifyClient{token: "access", playing: liveTrack}
	obs := &recordingObserver{}
	svc := NewNowPlayingService(client, creds, obs)

	got := svc.Current(context.Background())

	assert.Equal(t, FallbackTrack(), got)
	assert.Zero(t, client.totalCalls())
	assert.Equal(t, []model.EventKind{model.EventMissingCredential}, obs.kinds())
}

func TestNext(t *testing.T) {
	tests := []struct {
		state        LadderState
		outcome      StepOutcome
		wantState    LadderState
		wantTerminal bool
	}{
		{StateTokenRefresh, OutcomeLive, StateNowPlaying, false},
		{StateTokenRefresh, OutcomeAdvance, StateStaticFallback, true},
		{StateTokenRefresh, OutcomeAbort, StateStaticFallback, true},
		{StateNowPlaying, OutcomeLive, StateNowPlaying, true},
		{StateNowPlaying, OutcomeAdvance, StateRecentlyPlayed, false},
		{StateNowPlaying, OutcomeAbort, StateStaticFallback, true},
		{StateRecentlyPlayed, OutcomeLive, StateRecentlyPlayed, true},
		{StateRecentlyPlayed, OutcomeAdvance, StateStaticFallback, true},
		{StateRecentlyPlayed, OutcomeAbort, StateStaticFallback, true},
		{StateStaticFallback, OutcomeLive, StateStaticFallback, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String()+"/"+tt.outcome.String(), func(t *testing.T) {
			gotState, gotTerminal := Next(tt.state, tt.outcome)

			assert.Equal(t, tt.wantState, gotState)
			assert.Equal(t, tt.wantTerminal, gotTerminal)
		})
	}
}

func TestOutcomeFor(t *testing.T) {
	assert.Equal(t, OutcomeLive, OutcomeFor(nil))
	assert.Equal(t, OutcomeAdvance, OutcomeFor(driven.ErrNothingPlaying))
	assert.Equal(t, OutcomeAdvance, OutcomeFor(driven.ErrShapeMismatch))
	assert.Equal(t, OutcomeAbort, OutcomeFor(driven.ErrEmptyResult))
	assert.Equal(t, OutcomeAbort, OutcomeFor(&driven.StatusError{Status: 503}))
	assert.Equal(t, OutcomeAbort, OutcomeFor(errors.New("eof")))
}
