package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	wishdomain "github.com/ghuser/wishlist/services/wishlist/domain"
	"github.com/ghuser/wishlist/services/wishlist/domain/models"
	"github.com/ghuser/wishlist/services/wishlist/domain/repositories"
	domainsvcs "github.com/ghuser/wishlist/services/wishlist/domain/services"
)

// WishService validates submissions and forwards them to the record store.
// It holds no state of its own: every read goes to the store.
type WishService struct {
	repo repositories.WishRepository
}

// NewWishService returns a WishService backed by repo.
func NewWishService(repo repositories.WishRepository) *WishService {
	return &WishService{repo: repo}
}

// List returns every wish, newest first.
func (s *WishService) List(ctx context.Context) ([]models.Wish, error) {
	wishes, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wishes: %w", err)
	}
	return wishes, nil
}

// Create trims and validates name and item, then inserts the wish.
func (s *WishService) Create(ctx context.Context, name, item string) (models.Wish, error) {
	draft, err := domainsvcs.PrepareDraft(name, item)
	if err != nil {
		return models.Wish{}, fmt.Errorf("%w: %w", wishdomain.ErrInvalidWish, err)
	}

	w, err := s.repo.Insert(ctx, draft)
	if err != nil {
		return models.Wish{}, fmt.Errorf("insert wish: %w", err)
	}
	return w, nil
}

// Update trims and validates name and item, then updates the wish with id.
// ID and CreatedAt of the stored wish are never touched.
func (s *WishService) Update(ctx context.Context, id uuid.UUID, name, item string) (models.Wish, error) {
	draft, err := domainsvcs.PrepareDraft(name, item)
	if err != nil {
		return models.Wish{}, fmt.Errorf("%w: %w", wishdomain.ErrInvalidWish, err)
	}

	w, err := s.repo.Update(ctx, id, draft)
	if err != nil {
		return models.Wish{}, fmt.Errorf("update wish %s: %w", id, err)
	}
	return w, nil
}

// Delete removes the wish with id. No confirmation, no undo.
func (s *WishService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete wish %s: %w", id, err)
	}
	return nil
}
