package model

import "time"

// Credential holds a service credential key-value pair. Service identifies
// the upstream ("github", "spotify", "monkeytype"), and Key identifies the
// secret within that service ("token", "client_id", "ape_key").
type Credential struct {
	ID        int64
	Service   string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Known credential services and keys.
const (
	ServiceGitHub     = "github"
	ServiceSpotify    = "spotify"
	ServiceMonkeytype = "monkeytype"

	KeyToken        = "token"
	KeyClientID     = "client_id"
	KeyClientSecret = "client_secret"
	KeyRefreshToken = "refresh_token"
	KeyApeKey       = "ape_key"
)
