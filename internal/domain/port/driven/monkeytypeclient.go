package driven

import (
	"context"

	"github.com/andrespaulino/livestats/internal/domain/model"
)

// MonkeytypeClient defines the driven port for the Monkeytype API.
type MonkeytypeClient interface {
	// PersonalBests returns every time-mode personal best, flattened in
	// ascending bucket order. Returns ErrEmptyResult when there are none.
	PersonalBests(ctx context.Context, apeKey string) ([]model.TypingResult, error)
}
