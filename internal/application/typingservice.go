package application

import (
	"context"
	"math"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

// TypingService reports the best typing-test result across all time-mode
// personal bests.
type TypingService struct {
	client   driven.MonkeytypeClient
	creds    CredentialSource
	observer driven.Observer
}

// NewTypingService creates a TypingService with the required dependencies.
func NewTypingService(client driven.MonkeytypeClient, creds CredentialSource, observer driven.Observer) *TypingService {
	return &TypingService{client: client, creds: creds, observer: observer}
}

// Best returns the highest-WPM personal best, or FallbackTyping when it
// cannot be determined.
func (s *TypingService) Best(ctx context.Context) model.MonkeyTypeData {
	apeKey := s.creds.Lookup(ctx, model.ServiceMonkeytype, model.KeyApeKey)

	return fetchWithFallback(ctx, s.observer, source[model.MonkeyTypeData]{
		integration: model.IntegrationMonkeytype,
		operation:   "personal_bests",
		ready:       apeKey != "",
		fetch: func(ctx context.Context) (model.MonkeyTypeData, error) {
			results, err := s.client.PersonalBests(ctx, apeKey)
			if err != nil {
				return model.MonkeyTypeData{}, err
			}
			best, ok := selectBest(results)
			if !ok {
				return model.MonkeyTypeData{}, driven.ErrEmptyResult
			}
			return best, nil
		},
		fallback: FallbackTyping,
	})
}

// selectBest picks the result with the highest WPM. Ties keep the earliest
// result. Returns false for an empty slice.
func selectBest(results []model.TypingResult) (model.MonkeyTypeData, bool) {
	if len(results) == 0 {
		return model.MonkeyTypeData{}, false
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.WPM > best.WPM {
			best = r
		}
	}

	return model.MonkeyTypeData{
		Acc:         roundHalfUp(best.Acc),
		Consistency: roundHalfUp(best.Consistency),
		Language:    best.Language,
		Time:        best.Time,
		WPM:         roundHalfUp(best.WPM),
	}, true
}

// roundHalfUp rounds .5 toward positive infinity, matching Math.round.
// 0.49999999999999994 rounds to 0.
func roundHalfUp(v float64) int {
	floor := math.Floor(v)
	if v-floor >= 0.5 {
		return int(floor) + 1
	}
	return int(floor)
}
