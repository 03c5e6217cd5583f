// Package store is the per-entity storage collaborator. Every method is a
// single-entity create/fetch/update/delete; multi-entity consistency is the
// aggregate coordinator's job, not the store's.
package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced entity does not exist by id or
// natural key.
var ErrNotFound = errors.New("not found")

// Store wraps a gorm connection with per-entity accessors.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for ad-hoc reads (counts, monitoring).
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", entity, err)
}
