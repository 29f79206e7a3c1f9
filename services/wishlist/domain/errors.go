package domain

import "errors"

// Sentinel errors for the wishlist domain. Use errors.Is() to check these.
var (
	// ErrWishNotFound indicates no wish matches the requested id.
	ErrWishNotFound = errors.New("wish not found")

	// ErrInvalidWish indicates the submitted name or item violates domain constraints.
	ErrInvalidWish = errors.New("invalid wish")

	// ErrStoreUnavailable is the single "remote operation failed" condition.
	// The record store wraps every driver, network and permission failure with it.
	ErrStoreUnavailable = errors.New("record store operation failed")
)
