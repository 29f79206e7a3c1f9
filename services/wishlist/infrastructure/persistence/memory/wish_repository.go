// Package memory is an in-process WishRepository for tests. It mirrors the
// PostgreSQL store's observable behaviour: store-assigned ids and timestamps,
// newest-first listing, ErrWishNotFound on unknown ids and injectable
// ErrStoreUnavailable failures.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	wishdomain "github.com/ghuser/wishlist/services/wishlist/domain"
	"github.com/ghuser/wishlist/services/wishlist/domain/models"
)

// Operation names accepted by FailOn.
const (
	OpList   = "list"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// WishRepository is a concurrency-safe in-memory record store.
type WishRepository struct {
	mu       sync.Mutex
	wishes   map[uuid.UUID]models.Wish
	now      time.Time
	failures map[string]error
	calls    map[string]int
}

// NewWishRepository returns an empty store. Timestamps start at a fixed
// instant and advance one second per insert so ordering is deterministic.
func NewWishRepository() *WishRepository {
	return &WishRepository{
		wishes:   make(map[uuid.UUID]models.Wish),
		now:      time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// Seed stores wishes as-is, keeping their ids and timestamps.
func (r *WishRepository) Seed(wishes ...models.Wish) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range wishes {
		r.wishes[w.ID] = w
		if w.CreatedAt.After(r.now) {
			r.now = w.CreatedAt
		}
	}
}

// FailOn makes every call of op fail with err wrapped in ErrStoreUnavailable.
// A nil err clears the failure.
func (r *WishRepository) FailOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, op)
		return
	}
	r.failures[op] = err
}

// Calls reports how many times op was invoked, failed calls included.
func (r *WishRepository) Calls(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

// Snapshot returns the stored wishes newest first without counting as a call.
func (r *WishRepository) Snapshot() []models.Wish {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted()
}

func (r *WishRepository) enter(op string) error {
	r.calls[op]++
	if err, ok := r.failures[op]; ok {
		return fmt.Errorf("%w: %w", wishdomain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *WishRepository) sorted() []models.Wish {
	out := make([]models.Wish, 0, len(r.wishes))
	for _, w := range r.wishes {
		out = append(out, w)
	}
	slices.SortFunc(out, func(a, b models.Wish) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID.String(), a.ID.String())
	})
	return out
}

// ListNewestFirst implements repositories.WishRepository.
func (r *WishRepository) ListNewestFirst(_ context.Context) ([]models.Wish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(OpList); err != nil {
		return nil, err
	}
	return r.sorted(), nil
}

// Insert implements repositories.WishRepository.
func (r *WishRepository) Insert(_ context.Context, draft models.WishDraft) (models.Wish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(OpInsert); err != nil {
		return models.Wish{}, err
	}
	r.now = r.now.Add(time.Second)
	w := models.Wish{ID: uuid.New(), Name: draft.Name, Item: draft.Item, CreatedAt: r.now}
	r.wishes[w.ID] = w
	return w, nil
}

// Update implements repositories.WishRepository.
func (r *WishRepository) Update(_ context.Context, id uuid.UUID, draft models.WishDraft) (models.Wish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(OpUpdate); err != nil {
		return models.Wish{}, err
	}
	w, ok := r.wishes[id]
	if !ok {
		return models.Wish{}, wishdomain.ErrWishNotFound
	}
	w = w.WithDraft(draft)
	r.wishes[id] = w
	return w, nil
}

// Delete implements repositories.WishRepository.
func (r *WishRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(OpDelete); err != nil {
		return err
	}
	if _, ok := r.wishes[id]; !ok {
		return wishdomain.ErrWishNotFound
	}
	delete(r.wishes, id)
	return nil
}
