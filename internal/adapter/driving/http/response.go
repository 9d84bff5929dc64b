package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/andrespaulino/livestats/internal/domain/model"
)

// TimestampLayout is ISO-8601 UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// LastUpdatedResponse is the JSON representation of LastUpdatedTimeData.
type LastUpdatedResponse struct {
	LastUpdatedTime string `json:"lastUpdatedTime"`
	LatestCommitURL string `json:"latestCommitUrl"`
}

// RepositoryResponse is the JSON representation of GithubRepositoryLastUpdated.
type RepositoryResponse struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	ForkCount      int    `json:"forkCount"`
	StargazerCount int    `json:"stargazerCount"`
	URL            string `json:"url"`
	PushedAt       string `json:"pushedAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// TypingResponse is the JSON representation of MonkeyTypeData.
type TypingResponse struct {
	Acc         int    `json:"acc"`
	Consistency int    `json:"consistency"`
	Language    string `json:"language"`
	Time        int    `json:"time"`
	WPM         int    `json:"wpm"`
}

// NowPlayingResponse is the JSON representation of SpotifyData.
type NowPlayingResponse struct {
	IsPlaying     bool   `json:"isPlaying"`
	SongURL       string `json:"songUrl"`
	Title         string `json:"title"`
	AlbumImageURL string `json:"albumImageUrl"`
	Artist        string `json:"artist"`
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ToLastUpdatedResponse converts domain data to its JSON form.
func ToLastUpdatedResponse(d model.LastUpdatedTimeData) LastUpdatedResponse {
	return LastUpdatedResponse{
		LastUpdatedTime: FormatTimestamp(d.LastUpdatedTime),
		LatestCommitURL: d.LatestCommitURL,
	}
}

// ToRepositoryResponse converts domain data to its JSON form.
func ToRepositoryResponse(d model.GithubRepositoryLastUpdated) RepositoryResponse {
	return RepositoryResponse{
		Name:           d.Name,
		Description:    d.Description,
		ForkCount:      d.ForkCount,
		StargazerCount: d.StargazerCount,
		URL:            d.URL,
		PushedAt:       FormatTimestamp(d.PushedAt),
		UpdatedAt:      FormatTimestamp(d.UpdatedAt),
	}
}

// ToTypingResponse converts domain data to its JSON form.
func ToTypingResponse(d model.MonkeyTypeData) TypingResponse {
	return TypingResponse{
		Acc:         d.Acc,
		Consistency: d.Consistency,
		Language:    d.Language,
		Time:        d.Time,
		WPM:         d.WPM,
	}
}

// ToNowPlayingResponse converts domain data to its JSON form.
func ToNowPlayingResponse(d model.SpotifyData) NowPlayingResponse {
	return NowPlayingResponse{
		IsPlaying:     d.IsPlaying,
		SongURL:       d.SongURL,
		Title:         d.Title,
		AlbumImageURL: d.AlbumImageURL,
		Artist:        d.Artist,
	}
}
