// Package subscribers consumes wish events in the worker process.
package subscribers

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/wishlist/pkg/events"
	"github.com/ghuser/wishlist/pkg/logger"
	appsvcs "github.com/ghuser/wishlist/services/wishlist/application/services"
	domainevents "github.com/ghuser/wishlist/services/wishlist/domain/events"
)

// Subscriber is the consuming side of the event bus.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler events.Handler) (<-chan error, error)
}

// EventRecorder counts consumed events.
type EventRecorder interface {
	RecordEvent(ctx context.Context, topic string, duplicate bool)
}

// Applier records one wish event.
type Applier interface {
	Apply(ctx context.Context, topic string, payload []byte) (inserted bool, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordEvent(context.Context, string, bool) {}

// Activity appends every wish event to the activity trail.
type Activity struct {
	applier  Applier
	log      logger.Logger
	recorder EventRecorder
}

// NewActivity returns an Activity subscriber. recorder may be nil.
func NewActivity(applier Applier, log logger.Logger, recorder EventRecorder) *Activity {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Activity{applier: applier, log: log, recorder: recorder}
}

// Register subscribes to every wishlist topic and drains the subscriber
// error channels in the background until they close.
func (a *Activity) Register(ctx context.Context, bus Subscriber) error {
	for _, topic := range domainevents.Topics {
		errCh, err := bus.Subscribe(ctx, topic, a.Handler(topic))
		if err != nil {
			return err
		}

		go func() {
			for err := range errCh {
				a.log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
	}

	a.log.Info("event subscribers registered", "topics", domainevents.Topics)
	return nil
}

// Handler returns the handler for topic. Handlers are idempotent: a
// redelivered event is recorded once. Malformed events are acknowledged and
// logged since retrying cannot fix them.
func (a *Activity) Handler(topic string) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		inserted, err := a.applier.Apply(ctx, topic, msg.Payload)
		if errors.Is(err, appsvcs.ErrMalformedEvent) {
			a.log.WarnContext(ctx, "dropping malformed event",
				"topic", topic, "message_uuid", msg.UUID, "error", err)
			return nil
		}
		if err != nil {
			return err
		}

		a.recorder.RecordEvent(ctx, topic, !inserted)
		if inserted {
			a.log.InfoContext(ctx, "activity recorded", "topic", topic, "message_uuid", msg.UUID)
		} else {
			a.log.DebugContext(ctx, "duplicate event ignored", "topic", topic, "message_uuid", msg.UUID)
		}
		return nil
	}
}
