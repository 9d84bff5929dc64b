package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

// NowPlayingService walks the Spotify degrade ladder:
// token refresh, then now playing, then recently played, then FallbackTrack.
type NowPlayingService struct {
	client   driven.SpotifyClient
	creds    CredentialSource
	observer driven.Observer
}

// NewNowPlayingService creates a NowPlayingService with the required dependencies.
func NewNowPlayingService(client driven.SpotifyClient, creds CredentialSource, observer driven.Observer) *NowPlayingService {
	return &NowPlayingService{client: client, creds: creds, observer: observer}
}

// Current returns the currently playing track, the most recently played track
// when nothing is playing, or FallbackTrack when Spotify cannot be used.
func (s *NowPlayingService) Current(ctx context.Context) (result model.SpotifyData) {
	base := model.FetchEvent{
		Integration:  model.IntegrationSpotify,
		Operation:    "now_playing",
		InvocationID: uuid.NewString(),
	}

	creds := spotifyCredentials(ctx, s.creds)
	if !creds.Complete() {
		event := base
		event.Kind = model.EventMissingCredential
		event.Err = driven.ErrMissingCredential
		notify(ctx, s.observer, event)
		return FallbackTrack()
	}

	state := StateTokenRefresh
	defer func() {
		if v := recover(); v != nil {
			event := base
			event.Kind = model.EventTransportFailure
			event.Target = state.String()
			event.Err = fmt.Errorf("panic during %s: %v", state, v)
			notify(ctx, s.observer, event)
			result = FallbackTrack()
		}
	}()

	var accessToken string
	for {
		var track model.SpotifyData
		var err error

		switch state {
		case StateTokenRefresh:
			accessToken, err = s.client.AccessToken(ctx, creds)
		case StateNowPlaying:
			track, err = s.client.CurrentlyPlaying(ctx, accessToken)
		case StateRecentlyPlayed:
			track, err = s.client.RecentlyPlayed(ctx, accessToken)
		default:
			return FallbackTrack()
		}

		event := base
		event.Target = state.String()
		event.Kind = classify(err)
		event.Err = err

		next, terminal := Next(state, OutcomeFor(err))
		if terminal && next != StateStaticFallback {
			notify(ctx, s.observer, event)
			track.IsPlaying = next == StateNowPlaying
			return track
		}
		if err != nil {
			notify(ctx, s.observer, event)
		}

		transition := base
		transition.Kind = model.EventLadderTransition
		transition.From = state.String()
		transition.To = next.String()
		notify(ctx, s.observer, transition)

		if terminal {
			return FallbackTrack()
		}
		state = next
	}
}
