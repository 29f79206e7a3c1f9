package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/wishlist/pkg/database"
	"github.com/ghuser/wishlist/pkg/events"
	wishdomain "github.com/ghuser/wishlist/services/wishlist/domain"
	domainevents "github.com/ghuser/wishlist/services/wishlist/domain/events"
	"github.com/ghuser/wishlist/services/wishlist/domain/models"
	"github.com/ghuser/wishlist/services/wishlist/infrastructure/persistence/postgres/db"
)

// EventPublisher publishes messages inside the caller's transaction.
// *events.EventBus satisfies it.
type EventPublisher interface {
	PublishTx(ctx context.Context, tx *sql.Tx, topic string, msgs ...*message.Message) error
}

// WishRepository implements repositories.WishRepository against PostgreSQL.
// Every mutation publishes its wish event in the same transaction.
type WishRepository struct {
	db  *database.Database
	bus EventPublisher
}

// NewWishRepository returns a WishRepository. bus may be nil, in which case
// no events are published.
func NewWishRepository(database *database.Database, bus EventPublisher) *WishRepository {
	return &WishRepository{db: database, bus: bus}
}

// ListNewestFirst selects every wish ordered by created_at descending.
func (r *WishRepository) ListNewestFirst(ctx context.Context) (_ []models.Wish, err error) {
	ctx, end := r.db.TraceQuery(ctx, "ListWishesNewestFirst", "SELECT wishlist ORDER BY created_at DESC")
	defer func() { end(err) }()

	rows, err := db.New(r.db.DB()).ListWishesNewestFirst(ctx)
	if err != nil {
		return nil, storeError("list wishes", err)
	}

	wishes := make([]models.Wish, len(rows))
	for i, row := range rows {
		wishes[i] = rowToWish(row)
	}
	return wishes, nil
}

// Insert stores draft and publishes wish.created.
func (r *WishRepository) Insert(ctx context.Context, draft models.WishDraft) (_ models.Wish, err error) {
	ctx, end := r.db.TraceQuery(ctx, "InsertWish", "INSERT wishlist")
	defer func() { end(err) }()

	var w models.Wish
	err = r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row, err := db.New(tx).InsertWish(ctx, db.InsertWishParams{
			Item: draft.Item.String(),
			Name: nullString(draft.Name.String()),
		})
		if err != nil {
			return fmt.Errorf("insert wish: %w", err)
		}
		w = rowToWish(row)
		return r.publish(ctx, tx, domainevents.TopicWishCreated, w, w.CreatedAt)
	})
	if err != nil {
		return models.Wish{}, storeError("insert wish", err)
	}
	return w, nil
}

// Update sets name and item on the wish with id and publishes wish.updated.
// Returns ErrWishNotFound when no row matches.
func (r *WishRepository) Update(ctx context.Context, id uuid.UUID, draft models.WishDraft) (_ models.Wish, err error) {
	ctx, end := r.db.TraceQuery(ctx, "UpdateWish", "UPDATE wishlist WHERE id")
	defer func() { end(err) }()

	var w models.Wish
	err = r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row, err := db.New(tx).UpdateWish(ctx, db.UpdateWishParams{
			ID:   id,
			Item: draft.Item.String(),
			Name: nullString(draft.Name.String()),
		})
		if errors.Is(err, sql.ErrNoRows) {
			return wishdomain.ErrWishNotFound
		}
		if err != nil {
			return fmt.Errorf("update wish: %w", err)
		}
		w = rowToWish(row)
		return r.publish(ctx, tx, domainevents.TopicWishUpdated, w, time.Now().UTC())
	})
	if err != nil {
		return models.Wish{}, storeError("update wish", err)
	}
	return w, nil
}

// Delete removes the wish with id and publishes wish.deleted.
// Returns ErrWishNotFound when no row matches.
func (r *WishRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, end := r.db.TraceQuery(ctx, "DeleteWish", "DELETE wishlist WHERE id")
	defer func() { end(err) }()

	err = r.db.WithTx(ctx, func(tx *sql.Tx) error {
		n, err := db.New(tx).DeleteWish(ctx, id)
		if err != nil {
			return fmt.Errorf("delete wish: %w", err)
		}
		if n == 0 {
			return wishdomain.ErrWishNotFound
		}
		return r.publish(ctx, tx, domainevents.TopicWishDeleted, models.Wish{ID: id}, time.Now().UTC())
	})
	if err != nil {
		return storeError("delete wish", err)
	}
	return nil
}

func (r *WishRepository) publish(ctx context.Context, tx *sql.Tx, topic string, w models.Wish, at time.Time) error {
	if r.bus == nil {
		return nil
	}
	event := domainevents.WishEvent{
		EventID:    uuid.New(),
		Version:    domainevents.CurrentVersion,
		WishID:     w.ID,
		Name:       w.Name.String(),
		Item:       w.Item.String(),
		OccurredAt: at,
	}
	msg, err := events.NewMessage(event)
	if err != nil {
		return err
	}
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", strconv.Itoa(event.Version))
	if err := r.bus.PublishTx(ctx, tx, topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// storeError classifies a failed store call. Not-found passes through, a
// data exception (SQLSTATE class 22) means the values were unstorable, and
// everything else is the store being unavailable.
func storeError(op string, err error) error {
	if errors.Is(err, wishdomain.ErrWishNotFound) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "22" {
		return fmt.Errorf("%s: %w: %w", op, wishdomain.ErrInvalidWish, err)
	}
	return fmt.Errorf("%s: %w: %w", op, wishdomain.ErrStoreUnavailable, err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// rowToWish maps a db.Wishlist row to a domain models.Wish. A NULL name
// becomes the empty name.
func rowToWish(row db.Wishlist) models.Wish {
	return models.Wish{
		ID:        row.ID,
		Item:      models.WishText(row.Item),
		Name:      models.RequesterName(row.Name.String),
		CreatedAt: row.CreatedAt,
	}
}
