package application

import (
	"errors"

	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

// LadderState is a step in the now-playing degrade ladder.
type LadderState int

const (
	// StateTokenRefresh exchanges the refresh token for an access token.
	StateTokenRefresh LadderState = iota
	// StateNowPlaying asks for the currently playing track.
	StateNowPlaying
	// StateRecentlyPlayed asks for the most recently played track.
	StateRecentlyPlayed
	// StateStaticFallback returns FallbackTrack.
	StateStaticFallback
)

// String returns a stable name for logs and events.
func (s LadderState) String() string {
	switch s {
	case StateTokenRefresh:
		return "token_refresh"
	case StateNowPlaying:
		return "now_playing"
	case StateRecentlyPlayed:
		return "recently_played"
	case StateStaticFallback:
		return "static_fallback"
	default:
		return "unknown"
	}
}

// StepOutcome summarizes how a ladder step ended.
type StepOutcome int

const (
	// OutcomeLive means the step produced usable data.
	OutcomeLive StepOutcome = iota
	// OutcomeAdvance means the step had nothing to offer but the next step may.
	OutcomeAdvance
	// OutcomeAbort means the step failed and the ladder should give up.
	OutcomeAbort
)

// String returns a stable name for logs and events.
func (o StepOutcome) String() string {
	switch o {
	case OutcomeLive:
		return "live"
	case OutcomeAdvance:
		return "advance"
	case OutcomeAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// OutcomeFor classifies the error returned by a ladder step. Idle playback and
// unusable track payloads advance; everything else aborts.
func OutcomeFor(err error) StepOutcome {
	switch {
	case err == nil:
		return OutcomeLive
	case errors.Is(err, driven.ErrNothingPlaying), errors.Is(err, driven.ErrShapeMismatch):
		return OutcomeAdvance
	default:
		return OutcomeAbort
	}
}

// Next returns the state that follows state given outcome, and whether that
// state is terminal. Terminal NowPlaying and RecentlyPlayed carry live data;
// terminal StaticFallback carries FallbackTrack.
func Next(state LadderState, outcome StepOutcome) (LadderState, bool) {
	switch state {
	case StateTokenRefresh:
		if outcome == OutcomeLive {
			return StateNowPlaying, false
		}
		return StateStaticFallback, true
	case StateNowPlaying:
		switch outcome {
		case OutcomeLive:
			return StateNowPlaying, true
		case OutcomeAdvance:
			return StateRecentlyPlayed, false
		default:
			return StateStaticFallback, true
		}
	case StateRecentlyPlayed:
		if outcome == OutcomeLive {
			return StateRecentlyPlayed, true
		}
		return StateStaticFallback, true
	default:
		return StateStaticFallback, true
	}
}
