package model

// SpotifyData describes the track shown in the now-playing widget.
// IsPlaying is false for recently played and fallback tracks.
type SpotifyData struct {
	IsPlaying     bool
	SongURL       string
	Title         string
	AlbumImageURL string
	Artist        string
}

// SpotifyCredentials are the long-lived secrets needed to mint an access token.
type SpotifyCredentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Complete reports whether all three secrets are present.
func (c SpotifyCredentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}
