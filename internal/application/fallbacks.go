package application

import (
	"fmt"
	"time"

	"github.com/andrespaulino/livestats/internal/domain/model"
)

const unavailableDescription = "Repository information unavailable"

// fallbackCommit links to the commit history for contentPath when the latest
// commit cannot be fetched.
func fallbackCommit(repoFullName, branch, contentPath string, now time.Time) model.LastUpdatedTimeData {
	return model.LastUpdatedTimeData{
		LastUpdatedTime: now,
		LatestCommitURL: fmt.Sprintf("https://github.com/%s/commits/%s/%s", repoFullName, branch, contentPath),
	}
}

func fallbackRepository(owner, repo string, now time.Time) model.GithubRepositoryLastUpdated {
	return model.GithubRepositoryLastUpdated{
		Name:           repo,
		Description:    unavailableDescription,
		ForkCount:      0,
		StargazerCount: 0,
		URL:            fmt.Sprintf("https://github.com/%s/%s", owner, repo),
		PushedAt:       now,
		UpdatedAt:      now,
	}
}

// FallbackTyping is the typing result shown when Monkeytype is unavailable.
func FallbackTyping() model.MonkeyTypeData {
	return model.MonkeyTypeData{
		Acc:         98,
		Consistency: 95,
		Language:    "english",
		Time:        60,
		WPM:         110,
	}
}

// FallbackTrack is the track shown whenever the Spotify ladder degrades.
func FallbackTrack() model.SpotifyData {
	return model.SpotifyData{
		IsPlaying:     false,
		SongURL:       "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT",
		Title:         "Never Gonna Give You Up",
		AlbumImageURL: "https://cdn-images.dzcdn.net/images/cover/a15f1506bd41a3aa13030498d1d585e6/0x1900-000000-80-0-0.jpg",
		Artist:        "Rick Astley",
	}
}
