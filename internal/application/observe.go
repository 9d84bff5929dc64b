package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

// notify delivers event to obs. A panicking observer is logged and otherwise
// ignored so it can never change what a fetch returns.
func notify(ctx context.Context, obs driven.Observer, event model.FetchEvent) {
	if obs == nil {
		return
	}
	defer func() {
		if v := recover(); v != nil {
			slog.Error("observer panic recovered", "panic", v, "integration", event.Integration, "kind", event.Kind)
		}
	}()
	obs.Observe(ctx, event)
}

// classify maps a fetch error onto the event taxonomy. Anything that is not a
// known sentinel is a transport failure.
func classify(err error) model.EventKind {
	switch {
	case err == nil:
		return model.EventLive
	case errors.Is(err, driven.ErrMissingCredential):
		return model.EventMissingCredential
	case errors.Is(err, driven.ErrShapeMismatch):
		return model.EventShapeMismatch
	case errors.Is(err, driven.ErrEmptyResult), errors.Is(err, driven.ErrNothingPlaying):
		return model.EventEmptyResult
	default:
		return model.EventTransportFailure
	}
}
