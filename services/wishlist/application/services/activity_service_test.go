package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	wishdomain "github.com/ghuser/wishlist/services/wishlist/domain"
	domainevents "github.com/ghuser/wishlist/services/wishlist/domain/events"
	"github.com/ghuser/wishlist/services/wishlist/infrastructure/persistence/memory"
)

func payload(t *testing.T, evt domainevents.WishEvent) []byte {
	t.Helper()
	b, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestActivityService_Apply(t *testing.T) {
	repo := memory.NewActivityRepository()
	svc := NewActivityService(repo)
	ctx := context.Background()
	wishID := uuid.New()
	at := time.Date(2024, 12, 24, 18, 0, 0, 0, time.UTC)

	created := domainevents.WishEvent{EventID: uuid.New(), Version: 1, WishID: wishID, Name: "Alice", Item: "a pony", OccurredAt: at}
	deleted := domainevents.WishEvent{EventID: uuid.New(), Version: 1, WishID: wishID, OccurredAt: at.Add(time.Minute)}

	if ok, err := svc.Apply(ctx, domainevents.TopicWishCreated, payload(t, created)); err != nil || !ok {
		t.Fatalf("created: ok=%v err=%v", ok, err)
	}
	if ok, err := svc.Apply(ctx, domainevents.TopicWishDeleted, payload(t, deleted)); err != nil || !ok {
		t.Fatalf("deleted: ok=%v err=%v", ok, err)
	}
	if ok, err := svc.Apply(ctx, domainevents.TopicWishCreated, payload(t, created)); err != nil || ok {
		t.Fatalf("redelivery: ok=%v err=%v", ok, err)
	}

	history, err := svc.History(ctx, wishID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].Action != "created" || history[0].Item != "a pony" || history[1].Action != "deleted" {
		t.Errorf("unexpected history %+v", history)
	}
}

func TestActivityService_ApplyMalformed(t *testing.T) {
	valid := domainevents.WishEvent{EventID: uuid.New(), Version: 1, WishID: uuid.New()}

	tests := []struct {
		name    string
		topic   string
		payload []byte
	}{
		{"unknown topic", "wish.archived", payload(t, valid)},
		{"not json", domainevents.TopicWishCreated, []byte("{nope")},
		{"missing ids", domainevents.TopicWishCreated, []byte(`{"version":1}`)},
		{"future version", domainevents.TopicWishCreated, payload(t, domainevents.WishEvent{EventID: uuid.New(), Version: 99, WishID: uuid.New()})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewActivityRepository()
			_, err := NewActivityService(repo).Apply(context.Background(), tt.topic, tt.payload)
			if !errors.Is(err, ErrMalformedEvent) {
				t.Errorf("expected ErrMalformedEvent, got %v", err)
			}
		})
	}
}

func TestActivityService_ApplyStoreFailure(t *testing.T) {
	repo := memory.NewActivityRepository()
	repo.Fail(wishdomain.ErrStoreUnavailable)
	evt := domainevents.WishEvent{EventID: uuid.New(), Version: 1, WishID: uuid.New()}

	_, err := NewActivityService(repo).Apply(context.Background(), domainevents.TopicWishUpdated, payload(t, evt))
	if !errors.Is(err, wishdomain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if errors.Is(err, ErrMalformedEvent) {
		t.Fatal("store failures must stay retryable")
	}
}
