package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

// FetchEventsMetric is the counter name for fetch outcomes.
const FetchEventsMetric = "livestats.fetch.events"

// Attribute keys attached to every fetch event data point.
const (
	AttrIntegration = attribute.Key("livestats.integration")
	AttrOperation   = attribute.Key("livestats.operation")
	AttrKind        = attribute.Key("livestats.kind")
)

var _ driven.Observer = (*MetricsObserver)(nil)

// MetricsObserver counts fetch events by integration, operation, and kind.
type MetricsObserver struct {
	events metric.Int64Counter
}

// NewMetricsObserver registers the fetch event counter on meter.
func NewMetricsObserver(meter metric.Meter) (*MetricsObserver, error) {
	events, err := meter.Int64Counter(FetchEventsMetric,
		metric.WithDescription("Fetch outcomes and fallback ladder transitions"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", FetchEventsMetric, err)
	}
	return &MetricsObserver{events: events}, nil
}

// Observe implements driven.Observer.
func (o *MetricsObserver) Observe(ctx context.Context, event model.FetchEvent) {
	o.events.Add(ctx, 1, metric.WithAttributes(
		AttrIntegration.String(event.Integration),
		AttrOperation.String(event.Operation),
		AttrKind.String(string(event.Kind)),
	))
}
