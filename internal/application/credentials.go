package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

// CredentialSource resolves a secret for service and key. An empty string
// means the secret is not configured.
type CredentialSource interface {
	Lookup(ctx context.Context, service, key string) string
}

// CredentialResolver looks secrets up at call time. A value in the encrypted
// store takes priority over the process configuration, so credentials can be
// rotated without a restart.
type CredentialResolver struct {
	store    driven.CredentialStore
	defaults map[string]string
}

// NewCredentialResolver creates a resolver. store may be nil when credential
// storage is disabled. defaults is keyed by CredentialKey(service, key).
func NewCredentialResolver(store driven.CredentialStore, defaults map[string]string) *CredentialResolver {
	if defaults == nil {
		defaults = map[string]string{}
	}
	return &CredentialResolver{store: store, defaults: defaults}
}

// CredentialKey builds the lookup key for a service credential.
func CredentialKey(service, key string) string {
	return service + "/" + key
}

// Lookup returns the stored value if present, otherwise the configured default.
// Store failures are logged and treated as absence.
func (r *CredentialResolver) Lookup(ctx context.Context, service, key string) string {
	if r.store != nil {
		v, err := r.store.Get(ctx, service, key)
		switch {
		case err == nil && v != "":
			return v
		case err != nil && !errors.Is(err, driven.ErrEncryptionKeyNotSet):
			slog.Warn("credential store lookup failed", "service", service, "key", key, "error", err)
		}
	}
	return r.defaults[CredentialKey(service, key)]
}

func spotifyCredentials(ctx context.Context, src CredentialSource) model.SpotifyCredentials {
	return model.SpotifyCredentials{
		ClientID:     src.Lookup(ctx, model.ServiceSpotify, model.KeyClientID),
		ClientSecret: src.Lookup(ctx, model.ServiceSpotify, model.KeyClientSecret),
		RefreshToken: src.Lookup(ctx, model.ServiceSpotify, model.KeyRefreshToken),
	}
}
