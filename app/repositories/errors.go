// Package repositories implements the MongoDB data access layer. Every
// lookup that can miss returns ErrNotFound explicitly so handlers can turn
// it into a 404 instead of dereferencing an absent document.
package repositories

import "errors"

var (
	// ErrNotFound means the requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock means a conditional stock decrement matched the
	// tool but the remaining quantity was below the requested amount.
	ErrInsufficientStock = errors.New("insufficient stock")
)
