package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/wishlist/services/wishlist/domain/repositories"
)

// ActivityRepository is an in-memory activity trail.
type ActivityRepository struct {
	mu      sync.Mutex
	entries []repositories.ActivityEntry
	seen    map[uuid.UUID]bool
	err     error
}

// NewActivityRepository returns an empty trail.
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{seen: make(map[uuid.UUID]bool)}
}

// Fail makes every call return err until cleared with nil.
func (r *ActivityRepository) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Record implements repositories.ActivityRepository.
func (r *ActivityRepository) Record(_ context.Context, entry repositories.ActivityEntry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if r.seen[entry.EventID] {
		return false, nil
	}
	r.seen[entry.EventID] = true
	r.entries = append(r.entries, entry)
	return true, nil
}

// History implements repositories.ActivityRepository.
func (r *ActivityRepository) History(_ context.Context, wishID uuid.UUID) ([]repositories.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := slices.DeleteFunc(slices.Clone(r.entries), func(e repositories.ActivityEntry) bool {
		return e.WishID != wishID
	})
	slices.SortStableFunc(out, func(a, b repositories.ActivityEntry) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})
	return out, nil
}
