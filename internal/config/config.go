// Package config loads application configuration from an optional TOML file
// and LIVESTATS_* environment variables. Environment variables win.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults for optional settings.
const (
	DefaultContentRepo     = "andrespaulino/andrespaulino.dev"
	DefaultContentRoot     = "src/content"
	DefaultContentBranch   = "main"
	DefaultUpstreamTimeout = 8 * time.Second
	DefaultListenAddr      = "127.0.0.1:8080"
)

// Config holds the application configuration. Every credential is optional;
// a missing one only makes the matching integration serve its fallback.
type Config struct {
	GitHubToken         string
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRefreshToken string
	MonkeytypeAPIKey    string

	ContentRepo   string
	ContentRoot   string
	ContentBranch string

	UpstreamTimeout time.Duration
	ListenAddr      string

	DBPath    string
	SecretKey []byte // 32 bytes decoded from LIVESTATS_SECRET_KEY; nil when unset.
}

// HasCredentialStore reports whether the encrypted credential store can be
// opened: it needs both a database path and a secret key.
func (c *Config) HasCredentialStore() bool {
	return c.DBPath != "" && c.SecretKey != nil
}

// fileConfig mirrors the TOML layout of LIVESTATS_CONFIG.
type fileConfig struct {
	GitHub struct {
		Token string `toml:"token"`
	} `toml:"github"`
	Spotify struct {
		ClientID     string `toml:"client_id"`
		ClientSecret string `toml:"client_secret"`
		RefreshToken string `toml:"refresh_token"`
	} `toml:"spotify"`
	Monkeytype struct {
		APIKey string `toml:"api_key"`
	} `toml:"monkeytype"`
	Content struct {
		Repo   string `toml:"repo"`
		Root   string `toml:"root"`
		Branch string `toml:"branch"`
	} `toml:"content"`
	Server struct {
		ListenAddr      string `toml:"listen_addr"`
		UpstreamTimeout string `toml:"upstream_timeout"`
	} `toml:"server"`
	Store struct {
		DBPath    string `toml:"db_path"`
		SecretKey string `toml:"secret_key"`
	} `toml:"store"`
}

// Load reads configuration and returns a validated Config.
//
// When LIVESTATS_CONFIG names a TOML file it is read first. Each of these
// environment variables then overrides the file unless it is blank:
// LIVESTATS_GITHUB_TOKEN,
// LIVESTATS_SPOTIFY_CLIENT_ID, LIVESTATS_SPOTIFY_CLIENT_SECRET,
// LIVESTATS_SPOTIFY_REFRESH_TOKEN, LIVESTATS_MONKEYTYPE_API_KEY,
// LIVESTATS_CONTENT_REPO, LIVESTATS_CONTENT_ROOT, LIVESTATS_CONTENT_BRANCH,
// LIVESTATS_UPSTREAM_TIMEOUT (8s), LIVESTATS_LISTEN_ADDR (127.0.0.1:8080),
// LIVESTATS_DB_PATH, and LIVESTATS_SECRET_KEY (64 hex characters).
func Load() (*Config, error) {
	var file fileConfig
	if path, ok := os.LookupEnv("LIVESTATS_CONFIG"); ok && path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("LIVESTATS_CONFIG %q: %w", path, err)
		}
	}

	cfg := &Config{
		GitHubToken:         env("LIVESTATS_GITHUB_TOKEN", file.GitHub.Token),
		SpotifyClientID:     env("LIVESTATS_SPOTIFY_CLIENT_ID", file.Spotify.ClientID),
		SpotifyClientSecret: env("LIVESTATS_SPOTIFY_CLIENT_SECRET", file.Spotify.ClientSecret),
		SpotifyRefreshToken: env("LIVESTATS_SPOTIFY_REFRESH_TOKEN", file.Spotify.RefreshToken),
		MonkeytypeAPIKey:    env("LIVESTATS_MONKEYTYPE_API_KEY", file.Monkeytype.APIKey),
		ContentRepo:         orDefault(env("LIVESTATS_CONTENT_REPO", file.Content.Repo), DefaultContentRepo),
		ContentRoot:         orDefault(env("LIVESTATS_CONTENT_ROOT", file.Content.Root), DefaultContentRoot),
		ContentBranch:       orDefault(env("LIVESTATS_CONTENT_BRANCH", file.Content.Branch), DefaultContentBranch),
		ListenAddr:          orDefault(env("LIVESTATS_LISTEN_ADDR", file.Server.ListenAddr), DefaultListenAddr),
		DBPath:              env("LIVESTATS_DB_PATH", file.Store.DBPath),
		UpstreamTimeout:     DefaultUpstreamTimeout,
	}

	if parts := strings.Split(cfg.ContentRepo, "/"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("LIVESTATS_CONTENT_REPO must be owner/repo, got %q", cfg.ContentRepo)
	}

	if v := env("LIVESTATS_UPSTREAM_TIMEOUT", file.Server.UpstreamTimeout); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("LIVESTATS_UPSTREAM_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("LIVESTATS_UPSTREAM_TIMEOUT must be positive, got %s", parsed)
		}
		cfg.UpstreamTimeout = parsed
	}

	if v := env("LIVESTATS_SECRET_KEY", file.Store.SecretKey); v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("LIVESTATS_SECRET_KEY must be hex-encoded: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("LIVESTATS_SECRET_KEY must decode to 32 bytes, got %d", len(key))
		}
		cfg.SecretKey = key
	}

	return cfg, nil
}

// env returns the environment value for key when set and non-blank,
// otherwise fallback.
func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
