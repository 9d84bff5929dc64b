// Package spotify implements the SpotifyClient port.
//
// Response types follow https://developer.spotify.com/documentation/web-api/reference/
// and keep only the fields the now-playing widget needs.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// Compile-time interface satisfaction check.
var _ driven.SpotifyClient = (*Client)(nil)

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Images []spotifyImage `json:"images"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// spotifyTrack is the untrusted track object.
type spotifyTrack struct {
	Name         string          `json:"name"`
	Artists      []spotifyArtist `json:"artists"`
	Album        spotifyAlbum    `json:"album"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

type currentlyPlayingResponse struct {
	IsPlaying bool          `json:"is_playing"`
	Item      *spotifyTrack `json:"item"`
}

type playHistory struct {
	Track *spotifyTrack `json:"track"`
	// PlayedAt is kept for debugging; the widget does not display it.
	PlayedAt string `json:"played_at"`
}

type recentlyPlayedResponse struct {
	Items []playHistory `json:"items"`
}

// Client implements driven.SpotifyClient. It never stores tokens; each call
// chain mints its own access token.
type Client struct {
	httpClient *http.Client
	tokenURL   string
	baseURL    string
}

// NewClient creates a Spotify client whose requests are bounded by timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		tokenURL:   spotifyTokenURL,
		baseURL:    spotifyBaseURL,
	}
}

// NewClientWithHTTPClient creates a Client against custom endpoints.
// This constructor is intended for testing with httptest servers.
func NewClientWithHTTPClient(httpClient *http.Client, tokenURL, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		tokenURL:   tokenURL,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// AccessToken performs the refresh_token grant using HTTP Basic client auth.
func (c *Client) AccessToken(ctx context.Context, creds model.SpotifyCredentials) (string, error) {
	if !creds.Complete() {
		return "", fmt.Errorf("spotify token refresh: %w", driven.ErrMissingCredential)
	}

	config := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := config.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return "", fmt.Errorf("spotify token refresh: %w",
				&driven.StatusError{Endpoint: "spotify token", Status: retrieveErr.Response.StatusCode})
		}
		return "", fmt.Errorf("spotify token refresh: %w", err)
	}

	return token.AccessToken, nil
}

// CurrentlyPlaying fetches the active track. A 204 response or a body without
// an item means nothing is playing.
func (c *Client) CurrentlyPlaying(ctx context.Context, accessToken string) (model.SpotifyData, error) {
	var payload currentlyPlayingResponse
	status, err := c.get(ctx, accessToken, "/me/player/currently-playing", &payload)
	if err != nil {
		return model.SpotifyData{}, err
	}
	if status == http.StatusNoContent || payload.Item == nil {
		return model.SpotifyData{}, driven.ErrNothingPlaying
	}

	data, err := mapTrack(payload.Item)
	if err != nil {
		return model.SpotifyData{}, err
	}
	data.IsPlaying = true
	return data, nil
}

// RecentlyPlayed fetches the single most recently played track.
func (c *Client) RecentlyPlayed(ctx context.Context, accessToken string) (model.SpotifyData, error) {
	var payload recentlyPlayedResponse
	status, err := c.get(ctx, accessToken, "/me/player/recently-played?limit=1", &payload)
	if err != nil {
		return model.SpotifyData{}, err
	}
	if status == http.StatusNoContent || len(payload.Items) == 0 {
		return model.SpotifyData{}, fmt.Errorf("recently played: %w", driven.ErrEmptyResult)
	}

	return mapTrack(payload.Items[0].Track)
}

// get performs an authenticated GET and decodes a JSON body into v. It returns
// the HTTP status; 204 responses leave v untouched.
func (c *Client) get(ctx context.Context, accessToken, endpoint string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request %s failed: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &driven.StatusError{Endpoint: "spotify " + endpoint, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding %s: %w: %v", endpoint, driven.ErrShapeMismatch, err)
	}

	return resp.StatusCode, nil
}

// mapTrack converts an untrusted track object into SpotifyData. Artist names
// are joined in upstream order; the album image is the first one listed.
func mapTrack(track *spotifyTrack) (model.SpotifyData, error) {
	if track == nil {
		return model.SpotifyData{}, fmt.Errorf("track missing: %w", driven.ErrShapeMismatch)
	}
	if len(track.Album.Images) == 0 {
		return model.SpotifyData{}, fmt.Errorf("track %q has no album images: %w", track.Name, driven.ErrShapeMismatch)
	}

	names := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		names = append(names, artist.Name)
	}

	return model.SpotifyData{
		SongURL:       track.ExternalURLs.Spotify,
		Title:         track.Name,
		AlbumImageURL: track.Album.Images[0].URL,
		Artist:        strings.Join(names, ", "),
	}, nil
}
