package models

import (
	"context"

	"gorm.io/gorm"
)

// Store is the entity access layer. Every read and write of contacts, groups,
// phones & emails goes through it.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithContext returns a Store whose queries are bound to ctx.
func (s *Store) WithContext(ctx context.Context) *Store {
	return &Store{db: s.db.WithContext(ctx)}
}

// Transaction runs fn inside a single database transaction. The transaction is
// committed if fn returns nil and rolled back if it returns an error or panics.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) DB() *gorm.DB {
	return s.db
}
