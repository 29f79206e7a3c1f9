package models

import (
	"time"

	"github.com/google/uuid"
)

// Wish is one entry of the shared wishlist. ID and CreatedAt are assigned by
// the record store and never change afterwards.
type Wish struct {
	ID   uuid.UUID
	Item WishText
	// Name is empty for rows stored without a requester.
	Name      RequesterName
	CreatedAt time.Time
}

// WishDraft carries validated, trimmed values for an insert or an update.
type WishDraft struct {
	Name RequesterName
	Item WishText
}

// NewWishDraft trims and validates both submitted fields.
func NewWishDraft(name, item string) (WishDraft, error) {
	n, err := NewRequesterName(name)
	if err != nil {
		return WishDraft{}, err
	}
	i, err := NewWishText(item)
	if err != nil {
		return WishDraft{}, err
	}
	return WishDraft{Name: n, Item: i}, nil
}

// WithDraft returns a copy of w carrying the draft's name and item.
// ID and CreatedAt are preserved.
func (w Wish) WithDraft(d WishDraft) Wish {
	w.Name = d.Name
	w.Item = d.Item
	return w
}
