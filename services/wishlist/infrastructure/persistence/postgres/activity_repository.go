package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/wishlist/pkg/database"
	"github.com/ghuser/wishlist/services/wishlist/domain/repositories"
	"github.com/ghuser/wishlist/services/wishlist/infrastructure/persistence/postgres/db"
)

// ActivityRepository implements repositories.ActivityRepository.
type ActivityRepository struct {
	db *database.Database
}

// NewActivityRepository returns an ActivityRepository on database.
func NewActivityRepository(database *database.Database) *ActivityRepository {
	return &ActivityRepository{db: database}
}

// Record appends entry. A repeated EventID is ignored and reported as
// inserted=false, which makes redelivered events harmless.
func (r *ActivityRepository) Record(ctx context.Context, entry repositories.ActivityEntry) (inserted bool, err error) {
	ctx, end := r.db.TraceQuery(ctx, "InsertActivity", "INSERT wishlist_activity ON CONFLICT DO NOTHING")
	defer func() { end(err) }()

	n, err := db.New(r.db.DB()).InsertActivity(ctx, db.InsertActivityParams{
		EventID:    entry.EventID,
		WishID:     entry.WishID,
		Action:     entry.Action,
		Name:       nullString(entry.Name),
		Item:       nullString(entry.Item),
		OccurredAt: entry.OccurredAt,
	})
	if err != nil {
		return false, storeError("record activity", err)
	}
	return n > 0, nil
}

// History returns the activity entries for wishID, oldest first.
func (r *ActivityRepository) History(ctx context.Context, wishID uuid.UUID) (_ []repositories.ActivityEntry, err error) {
	ctx, end := r.db.TraceQuery(ctx, "ListActivityForWish", "SELECT wishlist_activity WHERE wish_id")
	defer func() { end(err) }()

	rows, err := db.New(r.db.DB()).ListActivityForWish(ctx, wishID)
	if err != nil {
		return nil, storeError("list activity", err)
	}

	entries := make([]repositories.ActivityEntry, len(rows))
	for i, row := range rows {
		entries[i] = repositories.ActivityEntry{
			EventID:    row.EventID,
			WishID:     row.WishID,
			Action:     row.Action,
			Name:       row.Name.String,
			Item:       row.Item.String,
			OccurredAt: row.OccurredAt,
		}
	}
	return entries, nil
}
