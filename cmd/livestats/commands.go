package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	httphandler "github.com/andrespaulino/livestats/internal/adapter/driving/http"
	"github.com/andrespaulino/livestats/internal/domain/model"
)

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range []func(*Runner) *cli.Command{
		serveCommand, fetchCommand, credentialsCommand, healthcheckCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the JSON API",
		Action: r.Serve,
	}
}

func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Run one integration and print its result as JSON",
		Commands: []*cli.Command{
			{
				Name:  "commit",
				Usage: "Latest commit for a content file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "path",
						Aliases:  []string{"p"},
						Usage:    "File path relative to the content root",
						Required: true,
					},
				},
				Action: r.FetchCommit,
			},
			{
				Name:      "repo",
				Usage:     "Repository metadata",
				ArgsUsage: "OWNER REPO",
				Action:    r.FetchRepo,
			},
			{
				Name:   "typing",
				Usage:  "Best Monkeytype personal best",
				Action: r.FetchTyping,
			},
			{
				Name:   "spotify",
				Usage:  "Current or most recent Spotify track",
				Action: r.FetchSpotify,
			},
		},
	}
}

func credentialsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "credentials",
		Aliases: []string{"creds"},
		Usage:   "Manage the encrypted credential store",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Store a credential",
				ArgsUsage: "SERVICE KEY VALUE",
				Action:    r.CredentialsSet,
			},
			{
				Name:      "delete",
				Usage:     "Remove a stored credential",
				ArgsUsage: "SERVICE KEY",
				Action:    r.CredentialsDelete,
			},
			{
				Name:   "list",
				Usage:  "List stored credentials with masked values",
				Action: r.CredentialsList,
			},
		},
	}
}

func healthcheckCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "healthcheck",
		Usage:  "Check the health endpoint of a running server",
		Action: r.Healthcheck,
	}
}

// Serve runs the JSON API until the context is canceled.
func (r *Runner) Serve(ctx context.Context, _ *cli.Command) error {
	a, err := r.wire(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	logger := slog.Default()
	handler := httphandler.NewServeMux(
		httphandler.NewHandler(a.github, a.typing, a.nowPlaying, logger),
		logger,
	)

	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      3*a.cfg.UpstreamTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", a.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Info("livestats started",
		"listen_addr", a.cfg.ListenAddr,
		"content_repo", a.cfg.ContentRepo,
		"upstream_timeout", a.cfg.UpstreamTimeout,
		"credential_store", a.store != nil,
	)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	slog.Info("shutdown complete")
	return nil
}

// FetchCommit prints the latest commit for --path.
func (r *Runner) FetchCommit(ctx context.Context, cmd *cli.Command) error {
	a, err := r.wire(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return r.writeJSON(httphandler.ToLastUpdatedResponse(a.github.LastUpdatedTime(ctx, cmd.String("path"))))
}

// FetchRepo prints metadata for OWNER REPO.
func (r *Runner) FetchRepo(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return errors.New("usage: livestats fetch repo OWNER REPO")
	}

	a, err := r.wire(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	data := a.github.RepositoryInfo(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
	return r.writeJSON(httphandler.ToRepositoryResponse(data))
}

// FetchTyping prints the best typing result.
func (r *Runner) FetchTyping(ctx context.Context, _ *cli.Command) error {
	a, err := r.wire(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return r.writeJSON(httphandler.ToTypingResponse(a.typing.Best(ctx)))
}

// FetchSpotify prints the now-playing track.
func (r *Runner) FetchSpotify(ctx context.Context, _ *cli.Command) error {
	a, err := r.wire(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return r.writeJSON(httphandler.ToNowPlayingResponse(a.nowPlaying.Current(ctx)))
}

// CredentialsSet stores SERVICE KEY VALUE.
func (r *Runner) CredentialsSet(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 3 {
		return errors.New("usage: livestats credentials set SERVICE KEY VALUE")
	}
	service, key, value := cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2)
	if err := validateCredentialKey(service, key); err != nil {
		return err
	}

	a, err := r.wireStore(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Set(ctx, service, key, value); err != nil {
		return err
	}
	r.logger.Info("credential stored", "service", service, "key", key)
	return nil
}

// CredentialsDelete removes SERVICE KEY.
func (r *Runner) CredentialsDelete(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return errors.New("usage: livestats credentials delete SERVICE KEY")
	}
	service, key := cmd.Args().Get(0), cmd.Args().Get(1)

	a, err := r.wireStore(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Delete(ctx, service, key); err != nil {
		return err
	}
	r.logger.Info("credential deleted", "service", service, "key", key)
	return nil
}

// CredentialsList prints stored credentials with masked values.
func (r *Runner) CredentialsList(ctx context.Context, _ *cli.Command) error {
	a, err := r.wireStore(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	creds, err := a.store.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERVICE\tKEY\tVALUE\tUPDATED")
	for _, c := range creds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Service, c.Key, maskSecret(c.Value), c.UpdatedAt.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}

// wireStore is wire for commands that cannot run without the credential store.
func (r *Runner) wireStore(ctx context.Context) (*app, error) {
	a, err := r.wire(ctx)
	if err != nil {
		return nil, err
	}
	if a.store == nil {
		a.close()
		return nil, errors.New("credential store disabled: set LIVESTATS_DB_PATH and LIVESTATS_SECRET_KEY")
	}
	return a, nil
}

// Healthcheck exits non-zero unless the local server answers 200 on /api/v1/health.
func (r *Runner) Healthcheck(ctx context.Context, _ *cli.Command) error {
	cfg, err := r.load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := fmt.Sprintf("http://%s/api/v1/health", normalizeAddr(cfg.ListenAddr))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := (&http.Client{Timeout: 2 * time.Second}).Do(req)
	if err != nil {
		return fmt.Errorf("healthcheck: %w", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck: status %d", resp.StatusCode)
	}
	return nil
}

// knownCredentials lists the service/key pairs the integrations read.
var knownCredentials = map[string][]string{
	model.ServiceGitHub:     {model.KeyToken},
	model.ServiceSpotify:    {model.KeyClientID, model.KeyClientSecret, model.KeyRefreshToken},
	model.ServiceMonkeytype: {model.KeyApeKey},
}

func validateCredentialKey(service, key string) error {
	keys, ok := knownCredentials[service]
	if !ok {
		return fmt.Errorf("unknown service %q (want github, spotify, or monkeytype)", service)
	}
	for _, k := range keys {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("unknown key %q for %s (want %s)", key, service, strings.Join(keys, ", "))
}

// maskSecret keeps the last four characters of long values.
func maskSecret(v string) string {
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}

// normalizeAddr points the healthcheck at loopback when the server binds
// every interface.
func normalizeAddr(raw string) string {
	if raw == "" {
		return "127.0.0.1:8080"
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return "127.0.0.1:8080"
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
