package driven

import (
	"context"

	"github.com/andrespaulino/livestats/internal/domain/model"
)

// SpotifyClient defines the driven port for the Spotify Accounts and Web APIs.
type SpotifyClient interface {
	// AccessToken exchanges the refresh token for a short-lived access token.
	AccessToken(ctx context.Context, creds model.SpotifyCredentials) (string, error)

	// CurrentlyPlaying returns the active track. Returns ErrNothingPlaying when
	// the player is idle and ErrShapeMismatch when the track cannot be normalized.
	CurrentlyPlaying(ctx context.Context, accessToken string) (model.SpotifyData, error)

	// RecentlyPlayed returns the most recently played track.
	RecentlyPlayed(ctx context.Context, accessToken string) (model.SpotifyData, error)
}
