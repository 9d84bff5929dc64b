// Package telemetry provides Observer implementations that turn fetch events
// into structured logs and OpenTelemetry metrics.
package telemetry

import (
	"context"
	"log/slog"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.Observer = (*LogObserver)(nil)
	_ driven.Observer = Fanout(nil)
)

// LogObserver writes each event to a slog.Logger. Degraded outcomes are logged
// at warn level; live results and ladder transitions at debug.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver. A nil logger uses slog.Default().
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

// Observe implements driven.Observer.
func (o *LogObserver) Observe(ctx context.Context, event model.FetchEvent) {
	attrs := []any{
		"integration", event.Integration,
		"operation", event.Operation,
		"kind", string(event.Kind),
		"invocation_id", event.InvocationID,
	}
	if event.Target != "" {
		attrs = append(attrs, "target", event.Target)
	}

	switch event.Kind {
	case model.EventLive:
		o.logger.DebugContext(ctx, "fetch served live data", attrs...)
	case model.EventLadderTransition:
		attrs = append(attrs, "from", event.From, "to", event.To)
		o.logger.DebugContext(ctx, "fallback ladder transition", attrs...)
	default:
		if event.Err != nil {
			attrs = append(attrs, "error", event.Err)
		}
		o.logger.WarnContext(ctx, "fetch degraded to fallback", attrs...)
	}
}

// Fanout delivers each event to every observer in order.
type Fanout []driven.Observer

// Observe implements driven.Observer.
func (f Fanout) Observe(ctx context.Context, event model.FetchEvent) {
	for _, obs := range f {
		if obs != nil {
			obs.Observe(ctx, event)
		}
	}
}
