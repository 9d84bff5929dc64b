package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

// source describes one guarded upstream fetch. ready is the result of the
// credential guard; fetch performs the call and normalization; fallback
// supplies the static value used on every failure path.
type source[T any] struct {
	integration string
	operation   string
	target      string
	ready       bool
	fetch       func(ctx context.Context) (T, error)
	fallback    func() T
}

// fetchWithFallback runs src and always returns a usable value. When the
// guard fails, fetch is never called.
func fetchWithFallback[T any](ctx context.Context, obs driven.Observer, src source[T]) (result T) {
	event := model.FetchEvent{
		Integration:  src.integration,
		Operation:    src.operation,
		Target:       src.target,
		InvocationID: uuid.NewString(),
	}

	if !src.ready {
		event.Kind = model.EventMissingCredential
		event.Err = driven.ErrMissingCredential
		notify(ctx, obs, event)
		return src.fallback()
	}

	defer func() {
		if v := recover(); v != nil {
			event.Kind = model.EventTransportFailure
			event.Err = fmt.Errorf("panic during %s: %v", src.operation, v)
			notify(ctx, obs, event)
			result = src.fallback()
		}
	}()

	value, err := src.fetch(ctx)
	event.Kind = classify(err)
	event.Err = err
	notify(ctx, obs, event)

	if err != nil {
		return src.fallback()
	}
	return value
}
