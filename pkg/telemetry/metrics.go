package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ghuser/wishlist"

// Action outcomes recorded on wishlist.actions.
const (
	OutcomeOK      = "ok"
	OutcomeSkipped = "skipped" // blank submission or nothing being edited
	OutcomeFailed  = "failed"  // record store error, logged and swallowed
)

// WishlistMetrics records page actions on the global OTel meter provider.
type WishlistMetrics struct {
	actions metric.Int64Counter
	events  metric.Int64Counter
}

// NewWishlistMetrics registers the wishlist instruments. Call after Setup so
// the Prometheus reader is installed.
func NewWishlistMetrics() (*WishlistMetrics, error) {
	meter := otel.Meter(meterName)

	actions, err := meter.Int64Counter("wishlist.actions",
		metric.WithDescription("Wishlist page actions by action and outcome"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, fmt.Errorf("wishlist.actions counter: %w", err)
	}

	events, err := meter.Int64Counter("wishlist.events.consumed",
		metric.WithDescription("Wish events consumed by the activity worker"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("wishlist.events.consumed counter: %w", err)
	}

	return &WishlistMetrics{actions: actions, events: events}, nil
}

// RecordAction counts one controller action.
func (m *WishlistMetrics) RecordAction(ctx context.Context, action, outcome string) {
	if m == nil {
		return
	}
	m.actions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

// RecordEvent counts one consumed wish event.
func (m *WishlistMetrics) RecordEvent(ctx context.Context, topic string, duplicate bool) {
	if m == nil {
		return
	}
	m.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("topic", topic),
		attribute.Bool("duplicate", duplicate),
	))
}
