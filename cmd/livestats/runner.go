package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"

	githubadapter "github.com/andrespaulino/livestats/internal/adapter/driven/github"
	monkeytypeadapter "github.com/andrespaulino/livestats/internal/adapter/driven/monkeytype"
	spotifyadapter "github.com/andrespaulino/livestats/internal/adapter/driven/spotify"
	sqliteadapter "github.com/andrespaulino/livestats/internal/adapter/driven/sqlite"
	"github.com/andrespaulino/livestats/internal/adapter/driven/telemetry"
	"github.com/andrespaulino/livestats/internal/application"
	"github.com/andrespaulino/livestats/internal/config"
	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

const meterName = "github.com/andrespaulino/livestats"

// Runner holds what every command needs and provides one method per command action.
type Runner struct {
	logger *log.Logger
	output io.Writer
	load   func() (*config.Config, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Logger *log.Logger
	Output io.Writer
	Load   func() (*config.Config, error)
}

// NewRunner creates a Runner, filling unset options with defaults.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Load == nil {
		opts.Load = config.Load
	}
	return &Runner{logger: opts.Logger, output: opts.Output, load: opts.Load}
}

// app is the wired application graph for one process.
type app struct {
	cfg        *config.Config
	store      driven.CredentialStore
	github     *application.GitHubService
	typing     *application.TypingService
	nowPlaying *application.NowPlayingService
	close      func()
}

// wire loads configuration and builds adapters and services. The returned
// app's close must be called when done.
func (r *Runner) wire(ctx context.Context) (*app, error) {
	cfg, err := r.load()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, close: func() {}}

	if cfg.HasCredentialStore() {
		db, err := sqliteadapter.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open credential store: %w", err)
		}
		a.store = sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
		a.close = func() {
			if err := db.Close(); err != nil {
				slog.Error("error closing database", "error", err)
			}
		}
		slog.Debug("credential store opened", "path", cfg.DBPath)
	}

	observer, err := newObserver()
	if err != nil {
		a.close()
		return nil, err
	}

	resolver := application.NewCredentialResolver(a.store, configuredCredentials(cfg))
	content := application.ContentRepo{
		FullName: cfg.ContentRepo,
		Root:     cfg.ContentRoot,
		Branch:   cfg.ContentBranch,
	}

	a.github = application.NewGitHubService(githubadapter.NewClient(cfg.UpstreamTimeout), resolver, observer, content)
	a.typing = application.NewTypingService(monkeytypeadapter.NewClient(cfg.UpstreamTimeout), resolver, observer)
	a.nowPlaying = application.NewNowPlayingService(spotifyadapter.NewClient(cfg.UpstreamTimeout), resolver, observer)

	return a, nil
}

// newObserver logs every fetch event and counts it on the global meter
// provider, which is a no-op unless the process installs one.
func newObserver() (driven.Observer, error) {
	metrics, err := telemetry.NewMetricsObserver(otel.Meter(meterName))
	if err != nil {
		return nil, err
	}
	return telemetry.Fanout{telemetry.NewLogObserver(slog.Default()), metrics}, nil
}

// configuredCredentials maps config values onto credential lookup keys.
func configuredCredentials(cfg *config.Config) map[string]string {
	return map[string]string{
		application.CredentialKey(model.ServiceGitHub, model.KeyToken):         cfg.GitHubToken,
		application.CredentialKey(model.ServiceSpotify, model.KeyClientID):     cfg.SpotifyClientID,
		application.CredentialKey(model.ServiceSpotify, model.KeyClientSecret): cfg.SpotifyClientSecret,
		application.CredentialKey(model.ServiceSpotify, model.KeyRefreshToken): cfg.SpotifyRefreshToken,
		application.CredentialKey(model.ServiceMonkeytype, model.KeyApeKey):    cfg.MonkeytypeAPIKey,
	}
}

func (r *Runner) writeJSON(v any) error {
	enc := json.NewEncoder(r.output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
