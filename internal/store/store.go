// Package store is the storage-access layer. It exposes the narrow contract
// the engines depend on: point lookups by id batch, ordered range scans
// keyed by the pagination cursors, and relative-delta counter updates.
// Nothing above this package builds queries.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// Store wraps a gorm connection with typed accessors.
type Store struct {
	db *gorm.DB
}

// New creates a Store over the given connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// IsNotFound reports whether err is the storage not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a uniqueness violation. The like
// ledgers rely on this to detect the loser of a concurrent-like race.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
