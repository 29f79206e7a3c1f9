package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBlank is returned when a submitted field is empty after trimming.
var ErrBlank = errors.New("must not be blank")

// WishText is a value object for the wished-for item. Always trimmed and
// never blank.
type WishText string

// RequesterName is a value object for the person making the wish. Always
// trimmed and never blank when built through NewRequesterName.
// Stored rows may carry an empty name; see Wish.
type RequesterName string

// NewWishText trims s and rejects a blank result.
func NewWishText(s string) (WishText, error) {
	v, err := trimmedField("item", s)
	if err != nil {
		return "", err
	}
	return WishText(v), nil
}

// NewRequesterName trims s and rejects a blank result.
func NewRequesterName(s string) (RequesterName, error) {
	v, err := trimmedField("name", s)
	if err != nil {
		return "", err
	}
	return RequesterName(v), nil
}

func trimmedField(field, s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("%s %w", field, ErrBlank)
	}
	return v, nil
}

// String returns the underlying string value.
func (t WishText) String() string { return string(t) }

// String returns the underlying string value.
func (n RequesterName) String() string { return string(n) }
