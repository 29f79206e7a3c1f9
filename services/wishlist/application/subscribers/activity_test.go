package subscribers_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/wishlist/pkg/events"
	"github.com/ghuser/wishlist/pkg/logger"
	"github.com/ghuser/wishlist/services/wishlist/application/services"
	"github.com/ghuser/wishlist/services/wishlist/application/subscribers"
	domainevents "github.com/ghuser/wishlist/services/wishlist/domain/events"
	"github.com/ghuser/wishlist/services/wishlist/infrastructure/persistence/memory"
)

type counted struct {
	topic     string
	duplicate bool
}

type fakeRecorder struct {
	mu   sync.Mutex
	seen []counted
}

func (f *fakeRecorder) RecordEvent(_ context.Context, topic string, duplicate bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, counted{topic, duplicate})
}

type fakeBus struct {
	handlers map[string]events.Handler
	fail     error
}

func (b *fakeBus) Subscribe(_ context.Context, topic string, h events.Handler) (<-chan error, error) {
	if b.fail != nil {
		return nil, b.fail
	}
	b.handlers[topic] = h
	ch := make(chan error)
	close(ch)
	return ch, nil
}

func newMessage(t *testing.T, evt domainevents.WishEvent) *message.Message {
	t.Helper()
	msg, err := events.NewMessage(evt)
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func setup(t *testing.T) (*subscribers.Activity, *memory.ActivityRepository, *fakeRecorder) {
	t.Helper()
	repo := memory.NewActivityRepository()
	rec := &fakeRecorder{}
	return subscribers.NewActivity(services.NewActivityService(repo), logger.Discard(), rec), repo, rec
}

func TestActivity_RegisterSubscribesEveryTopic(t *testing.T) {
	a, _, _ := setup(t)
	bus := &fakeBus{handlers: map[string]events.Handler{}}

	if err := a.Register(context.Background(), bus); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, topic := range domainevents.Topics {
		if bus.handlers[topic] == nil {
			t.Errorf("no handler for %s", topic)
		}
	}
}

func TestActivity_RegisterFails(t *testing.T) {
	a, _, _ := setup(t)
	bus := &fakeBus{handlers: map[string]events.Handler{}, fail: errors.New("no schema")}

	if err := a.Register(context.Background(), bus); err == nil {
		t.Fatal("expected subscribe error")
	}
}

func TestActivity_HandlerRecordsOnce(t *testing.T) {
	a, repo, rec := setup(t)
	ctx := context.Background()
	evt := domainevents.WishEvent{
		EventID:    uuid.New(),
		Version:    domainevents.CurrentVersion,
		WishID:     uuid.New(),
		Name:       "Alice",
		Item:       "a pony",
		OccurredAt: time.Now().UTC(),
	}
	h := a.Handler(domainevents.TopicWishCreated)

	for range 2 {
		if err := h(ctx, newMessage(t, evt)); err != nil {
			t.Fatalf("handler: %v", err)
		}
	}

	history, _ := repo.History(ctx, evt.WishID)
	if len(history) != 1 || history[0].Action != "created" {
		t.Fatalf("expected one created entry, got %+v", history)
	}
	if len(rec.seen) != 2 || rec.seen[0].duplicate || !rec.seen[1].duplicate {
		t.Errorf("expected new then duplicate, got %+v", rec.seen)
	}
}

func TestActivity_HandlerAcksMalformed(t *testing.T) {
	a, _, rec := setup(t)
	msg := message.NewMessage(uuid.NewString(), []byte("{not json"))

	if err := a.Handler(domainevents.TopicWishUpdated)(context.Background(), msg); err != nil {
		t.Fatalf("malformed events should be acknowledged, got %v", err)
	}
	if len(rec.seen) != 0 {
		t.Error("malformed events should not be counted")
	}
}

func TestActivity_HandlerRetriesStoreFailure(t *testing.T) {
	a, repo, _ := setup(t)
	repo.Fail(errors.New("connection refused"))
	evt := domainevents.WishEvent{EventID: uuid.New(), Version: 1, WishID: uuid.New(), OccurredAt: time.Now().UTC()}

	err := a.Handler(domainevents.TopicWishDeleted)(context.Background(), newMessage(t, evt))
	if err == nil {
		t.Fatal("store failures should be returned so the bus retries")
	}
}

func TestActivity_PayloadIsWishEvent(t *testing.T) {
	evt := domainevents.WishEvent{EventID: uuid.New(), Version: 1, WishID: uuid.New()}
	msg := newMessage(t, evt)

	var got domainevents.WishEvent
	if err := json.Unmarshal(msg.Payload, &got); err != nil || got.EventID != evt.EventID {
		t.Fatalf("unexpected payload %s: %v", msg.Payload, err)
	}
}
