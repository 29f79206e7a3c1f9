// Package events provides a PostgreSQL-backed pub/sub EventBus built on Watermill.
//
// Delivery semantics:
//   - ConsumerGroup (<service>-consumer): messages are load-balanced across all
//     instances in the group, so only one instance processes each message.
//   - Forwarder mode: Publish and PublishTx write an envelope to a durable
//     outbox topic; a forwarder daemon moves it to the real topic. Publishing
//     inside the caller's transaction makes "save row + emit event" atomic.
//
// Handlers should be idempotent. On failure the bus retries up to 3 times with
// exponential backoff, then Nacks the message for redelivery.
//
// Trace context is injected into message metadata on publish and extracted
// before the handler runs, so one trace spans the request and the worker.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/wishlist/pkg/logger"
)

const (
	maxRetries      = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	forwarderTopic  = "_forwarder_queue"
)

// Handler processes one message. Returning an error triggers a retry.
type Handler func(ctx context.Context, msg *message.Message) error

// Options configure NewEventBus.
type Options struct {
	// ConsumerGroup shares work between instances. Empty means broadcast.
	ConsumerGroup string
	// UseForwarder routes every publish through the outbox forwarder queue.
	UseForwarder bool
}

// EventBus is a pub/sub bus over Watermill's SQL transport, which uses
// FOR UPDATE SKIP LOCKED for concurrent-safe delivery.
type EventBus struct {
	publisher    message.Publisher
	subscriber   message.Subscriber
	fwd          *forwarder.Forwarder
	db           *sql.DB
	log          logger.Logger
	wg           sync.WaitGroup
	useForwarder bool
	retryDelay   time.Duration
}

// NewEventBus initializes a Watermill SQL publisher and subscriber on db.
// Schema tables are created on first use. The bus does not own db; the
// caller closes it after Close.
func NewEventBus(db *sql.DB, log logger.Logger, opts Options) (*EventBus, error) {
	wlog := &slogAdapter{log: log}

	pub, err := watermillsql.NewPublisher(
		db,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		wlog,
	)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	var publisher message.Publisher = pub
	if opts.UseForwarder {
		publisher = forwarder.NewPublisher(pub, forwarder.PublisherConfig{
			ForwarderTopic: forwarderTopic,
		})
	}

	sub, err := watermillsql.NewSubscriber(
		db,
		watermillsql.SubscriberConfig{
			SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
			ConsumerGroup:    opts.ConsumerGroup,
		},
		wlog,
	)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	bus := newBus(publisher, sub, log)
	bus.db = db
	bus.useForwarder = opts.UseForwarder
	return bus, nil
}

// newBus wires a bus over an arbitrary Watermill transport.
func newBus(pub message.Publisher, sub message.Subscriber, log logger.Logger) *EventBus {
	return &EventBus{
		publisher:  pub,
		subscriber: sub,
		log:        log,
		retryDelay: retryBaseDelay,
	}
}

// StartForwarder starts the daemon that drains the forwarder queue into the
// target topics. Call once, on a bus created with UseForwarder.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	if !q.useForwarder {
		return errors.New("events: StartForwarder called on non-forwarder EventBus")
	}
	if q.fwd != nil {
		return errors.New("events: forwarder already started")
	}

	wlog := &slogAdapter{log: q.log}

	fwdSub, err := watermillsql.NewSubscriber(
		q.db,
		watermillsql.SubscriberConfig{
			SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
			ConsumerGroup:    "forwarder-consumer",
		},
		wlog,
	)
	if err != nil {
		return fmt.Errorf("events: new forwarder subscriber: %w", err)
	}

	targetPub, err := watermillsql.NewPublisher(
		q.db,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		wlog,
	)
	if err != nil {
		_ = fwdSub.Close()
		return fmt.Errorf("events: new forwarder target publisher: %w", err)
	}

	fwd, err := forwarder.NewForwarder(fwdSub, targetPub, wlog, forwarder.Config{
		ForwarderTopic: forwarderTopic,
	})
	if err != nil {
		_ = targetPub.Close()
		_ = fwdSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}

	q.fwd = fwd

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.log.InfoContext(ctx, "events: forwarder started")
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
		} else {
			q.log.InfoContext(ctx, "events: forwarder stopped")
		}
	}()

	select {
	case <-fwd.Running():
	case <-ctx.Done():
		return fmt.Errorf("events: context cancelled waiting for forwarder: %w", ctx.Err())
	}

	return nil
}

// NewMessage marshals payload as JSON into a message with a fresh UUID.
func NewMessage(payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	return message.NewMessage(watermill.NewUUID(), data), nil
}

// Publish sends messages to topic outside any transaction.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	injectTrace(ctx, msgs)
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// PublishTx sends messages to topic inside tx. They become visible to
// subscribers only if tx commits.
func (q *EventBus) PublishTx(ctx context.Context, tx *sql.Tx, topic string, msgs ...*message.Message) error {
	pub, err := watermillsql.NewPublisher(
		tx,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: false,
		},
		&slogAdapter{log: q.log},
	)
	if err != nil {
		return fmt.Errorf("events: new tx publisher: %w", err)
	}

	var publisher message.Publisher = pub
	if q.useForwarder {
		publisher = forwarder.NewPublisher(pub, forwarder.PublisherConfig{
			ForwarderTopic: forwarderTopic,
		})
	}

	injectTrace(ctx, msgs)
	if err := publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s in tx: %w", topic, err)
	}
	return nil
}

// Subscribe processes messages from topic in a background goroutine.
//
// Ack/Nack is managed by the bus:
//   - handler returns nil: Ack
//   - handler returns error: retried up to 3 times with exponential backoff
//   - retries exhausted: Nack, and the error is sent on the returned channel
//
// The returned channel is buffered (capacity 100) and must be drained. All
// in-flight handlers complete before Close returns.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, 100)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTrace(ctx, msg)

			if err := retryWithBackoff(msgCtx, msg, handler, maxRetries, q.retryDelay, q.log); err != nil {
				msg.Nack()
				select {
				case errCh <- fmt.Errorf("%s: %w", topic, err):
				default:
					q.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
						"error", err, "topic", topic)
				}
			} else {
				msg.Ack()
			}
		}
	}()

	return errCh, nil
}

func injectTrace(ctx context.Context, msgs []*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// retryWithBackoff calls handler up to maxRetries times with exponential
// backoff and returns the last error once retries are exhausted.
func retryWithBackoff(
	ctx context.Context,
	msg *message.Message,
	handler Handler,
	maxRetries int,
	baseDelay time.Duration,
	log logger.Logger,
) error {
	delay := baseDelay
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt < maxRetries {
			log.WarnContext(ctx, "events: handler failed, retrying",
				"attempt", attempt,
				"max_retries", maxRetries,
				"next_delay", delay,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return fmt.Errorf("events: handler failed after %d retries: %w", maxRetries, err)
}

// Ping checks the EventBus database connection health.
func (q *EventBus) Ping(ctx context.Context) error {
	if q.db == nil {
		return nil
	}
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber and the forwarder, waits up to 30s for
// in-flight handlers, then closes the publisher.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}

	if q.fwd != nil {
		if err := q.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	select {
	case <-done:
	case <-ctx.Done():
		q.log.Error("events: timed out waiting for in-flight handlers to complete")
	}

	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
