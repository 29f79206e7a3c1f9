package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/wishlist/services/wishlist/domain/models"
)

// WishRepository is the query contract of the external record store. The
// domain layer owns this interface; infrastructure implements it.
//
// Implementations wrap transport failures with domain.ErrStoreUnavailable.
type WishRepository interface {
	// ListNewestFirst selects every wish ordered by created_at descending.
	ListNewestFirst(ctx context.Context) ([]models.Wish, error)

	// Insert stores a new wish. The store assigns ID and CreatedAt.
	Insert(ctx context.Context, draft models.WishDraft) (models.Wish, error)

	// Update sets name and item on the wish matching id.
	// Returns domain.ErrWishNotFound when no row matches.
	Update(ctx context.Context, id uuid.UUID, draft models.WishDraft) (models.Wish, error)

	// Delete removes the wish matching id.
	// Returns domain.ErrWishNotFound when no row matches.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityEntry is one row of the wishlist activity trail.
type ActivityEntry struct {
	EventID    uuid.UUID
	WishID     uuid.UUID
	Action     string
	Name       string
	Item       string
	OccurredAt time.Time
}

// ActivityRepository appends to the activity trail written by the worker.
type ActivityRepository interface {
	// Record stores entry. Recording the same EventID twice is a no-op.
	Record(ctx context.Context, entry ActivityEntry) (inserted bool, err error)

	// History returns the entries for wishID, oldest first.
	History(ctx context.Context, wishID uuid.UUID) ([]ActivityEntry, error)
}
