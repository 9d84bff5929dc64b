package httphandler

import (
	"log/slog"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/andrespaulino/livestats/internal/application"
)

// namePattern matches a GitHub owner or repository name.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Handler is the HTTP driving adapter that serves the stats API. Integration
// endpoints always answer 200; degraded results carry fallback values.
type Handler struct {
	github     *application.GitHubService
	typing     *application.TypingService
	nowPlaying *application.NowPlayingService
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	github *application.GitHubService,
	typing *application.TypingService,
	nowPlaying *application.NowPlayingService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		github:     github,
		typing:     typing,
		nowPlaying: nowPlaying,
		logger:     logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with request ID, logging, and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/github/last-updated", h.LastUpdated)
	mux.HandleFunc("GET /api/v1/github/repos/{owner}/{repo}", h.RepositoryInfo)
	mux.HandleFunc("GET /api/v1/monkeytype", h.Typing)
	mux.HandleFunc("GET /api/v1/spotify/now-playing", h.NowPlaying)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// LastUpdated returns the latest commit for a content file named by the path
// query parameter.
func (h *Handler) LastUpdated(w http.ResponseWriter, r *http.Request) {
	filePath := strings.TrimSpace(r.URL.Query().Get("path"))
	if filePath == "" {
		writeError(w, http.StatusBadRequest, "path query parameter is required")
		return
	}
	if slices.Contains(strings.Split(filePath, "/"), "..") {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}

	data := h.github.LastUpdatedTime(r.Context(), filePath)
	writeJSON(w, http.StatusOK, ToLastUpdatedResponse(data))
}

// RepositoryInfo returns metadata for a single repository.
func (h *Handler) RepositoryInfo(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	repo := r.PathValue("repo")

	if !namePattern.MatchString(owner) || !namePattern.MatchString(repo) {
		writeError(w, http.StatusBadRequest, "invalid repository name")
		return
	}

	data := h.github.RepositoryInfo(r.Context(), owner, repo)
	writeJSON(w, http.StatusOK, ToRepositoryResponse(data))
}

// Typing returns the best Monkeytype personal best.
func (h *Handler) Typing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ToTypingResponse(h.typing.Best(r.Context())))
}

// NowPlaying returns the current or most recently played Spotify track.
func (h *Handler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ToNowPlayingResponse(h.nowPlaying.Current(r.Context())))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
