// Package services contains stateless domain services for the wishlist.
// They operate purely on domain types and have no infrastructure dependencies.
package services

import (
	"fmt"

	"github.com/ghuser/wishlist/services/wishlist/domain/models"
)

// ValidateDraft checks that neither field of d is blank. Drafts built through
// NewWishDraft always pass; the zero WishDraft does not. Any other text is
// accepted here and left for the record store to judge.
func ValidateDraft(d models.WishDraft) error {
	if d.Name == "" {
		return fmt.Errorf("name %w", models.ErrBlank)
	}
	if d.Item == "" {
		return fmt.Errorf("item %w", models.ErrBlank)
	}
	return nil
}

// PrepareDraft builds a draft from raw submitted values and validates it.
func PrepareDraft(name, item string) (models.WishDraft, error) {
	d, err := models.NewWishDraft(name, item)
	if err != nil {
		return models.WishDraft{}, err
	}
	if err := ValidateDraft(d); err != nil {
		return models.WishDraft{}, err
	}
	return d, nil
}
