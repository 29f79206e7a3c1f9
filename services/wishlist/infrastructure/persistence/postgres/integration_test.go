package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/wishlist/pkg/database"
	"github.com/ghuser/wishlist/pkg/logger"
	"github.com/ghuser/wishlist/pkg/migrator"
	wishdomain "github.com/ghuser/wishlist/services/wishlist/domain"
	domainevents "github.com/ghuser/wishlist/services/wishlist/domain/events"
	"github.com/ghuser/wishlist/services/wishlist/domain/models"
	"github.com/ghuser/wishlist/services/wishlist/domain/repositories"
)

const migrationsDir = "../../../../../migrations/wishlist"

type published struct {
	topic string
	event domainevents.WishEvent
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (f *fakePublisher) PublishTx(_ context.Context, _ *sql.Tx, topic string, msgs ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, m := range msgs {
		var evt domainevents.WishEvent
		if err := json.Unmarshal(m.Payload, &evt); err != nil {
			return err
		}
		f.sent = append(f.sent, published{topic: topic, event: evt})
	}
	return nil
}

// openTestDB connects to DATABASE_URL, applies migrations and empties the
// wishlist tables. Skips when DATABASE_URL is unset.
func openTestDB(t *testing.T) *database.Database {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration tests")
	}
	ctx := context.Background()

	d, err := database.NewPool(ctx, dsn, logger.Discard())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(d.Close)

	if err := migrator.Up(ctx, d.DB(), os.DirFS(migrationsDir)); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := d.DB().ExecContext(ctx, "TRUNCATE wishlist, wishlist_activity"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return d
}

func mustDraft(t *testing.T, name, item string) models.WishDraft {
	t.Helper()
	d, err := models.NewWishDraft(name, item)
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	return d
}

func TestWishRepository_Integration(t *testing.T) {
	d := openTestDB(t)
	pub := &fakePublisher{}
	repo := NewWishRepository(d, pub)
	ctx := context.Background()

	alice, err := repo.Insert(ctx, mustDraft(t, "Alice", "a pony"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if alice.ID == uuid.Nil || alice.CreatedAt.IsZero() {
		t.Fatalf("expected store-assigned id and timestamp, got %+v", alice)
	}

	bob, err := repo.Insert(ctx, mustDraft(t, "Bob", "a kite"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	t.Run("ListNewestFirst", func(t *testing.T) {
		wishes, err := repo.ListNewestFirst(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(wishes) != 2 || wishes[0].ID != bob.ID || wishes[1].ID != alice.ID {
			t.Errorf("expected Bob then Alice, got %+v", wishes)
		}
	})

	t.Run("Update keeps id and created_at", func(t *testing.T) {
		updated, err := repo.Update(ctx, alice.ID, mustDraft(t, "Alicia", "two ponies"))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.ID != alice.ID || !updated.CreatedAt.Equal(alice.CreatedAt) {
			t.Errorf("identity changed: %+v vs %+v", updated, alice)
		}
		if updated.Name != "Alicia" || updated.Item != "two ponies" {
			t.Errorf("unexpected values %+v", updated)
		}
	})

	t.Run("Update unknown id", func(t *testing.T) {
		_, err := repo.Update(ctx, uuid.New(), mustDraft(t, "X", "y"))
		if !errors.Is(err, wishdomain.ErrWishNotFound) {
			t.Errorf("expected ErrWishNotFound, got %v", err)
		}
	})

	t.Run("Delete removes only target", func(t *testing.T) {
		if err := repo.Delete(ctx, alice.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		wishes, _ := repo.ListNewestFirst(ctx)
		if len(wishes) != 1 || wishes[0].ID != bob.ID {
			t.Errorf("expected only Bob left, got %+v", wishes)
		}
		if err := repo.Delete(ctx, alice.ID); !errors.Is(err, wishdomain.ErrWishNotFound) {
			t.Errorf("expected ErrWishNotFound on second delete, got %v", err)
		}
	})

	t.Run("events published in order", func(t *testing.T) {
		want := []string{
			domainevents.TopicWishCreated,
			domainevents.TopicWishCreated,
			domainevents.TopicWishUpdated,
			domainevents.TopicWishDeleted,
		}
		if len(pub.sent) != len(want) {
			t.Fatalf("expected %d events, got %d", len(want), len(pub.sent))
		}
		for i, topic := range want {
			if pub.sent[i].topic != topic {
				t.Errorf("event %d: got %s, want %s", i, pub.sent[i].topic, topic)
			}
		}
		if pub.sent[3].event.WishID != alice.ID {
			t.Errorf("expected delete event for Alice, got %s", pub.sent[3].event.WishID)
		}
	})
}

func TestWishRepository_PublishFailureRollsBack(t *testing.T) {
	d := openTestDB(t)
	repo := NewWishRepository(d, &fakePublisher{err: errors.New("outbox down")})
	ctx := context.Background()

	_, err := repo.Insert(ctx, mustDraft(t, "Carol", "a boat"))
	if !errors.Is(err, wishdomain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	wishes, err := NewWishRepository(d, nil).ListNewestFirst(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(wishes) != 0 {
		t.Errorf("expected insert rolled back, got %+v", wishes)
	}
}

func TestWishRepository_LegacyNullName(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	if _, err := d.DB().ExecContext(ctx, "INSERT INTO wishlist (item) VALUES ('a drum')"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	wishes, err := NewWishRepository(d, nil).ListNewestFirst(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(wishes) != 1 || wishes[0].Name != "" || wishes[0].Item != "a drum" {
		t.Errorf("unexpected %+v", wishes)
	}
}

func TestActivityRepository_Integration(t *testing.T) {
	d := openTestDB(t)
	repo := NewActivityRepository(d)
	ctx := context.Background()

	wishID := uuid.New()
	entry := repositories.ActivityEntry{
		EventID:    uuid.New(),
		WishID:     wishID,
		Action:     "created",
		Name:       "Alice",
		Item:       "a pony",
		OccurredAt: time.Now().UTC(),
	}

	inserted, err := repo.Record(ctx, entry)
	if err != nil || !inserted {
		t.Fatalf("first record: inserted=%v err=%v", inserted, err)
	}

	inserted, err = repo.Record(ctx, entry)
	if err != nil || inserted {
		t.Fatalf("duplicate record: inserted=%v err=%v", inserted, err)
	}

	history, err := repo.History(ctx, wishID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Action != "created" || history[0].Name != "Alice" {
		t.Errorf("unexpected history %+v", history)
	}
}
