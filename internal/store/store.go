// Package store is the relational entity store: users, reference data,
// recipes and the favorite/cart/subscription relationships between them.
//
// Every mutation that must be all-or-nothing runs inside a single gorm
// transaction; relationship pairs are additionally backed by unique indexes.
package store

import "gorm.io/gorm"

// Store wraps a gorm handle
type Store struct {
	db *gorm.DB
}

// New returns a Store over db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and tests
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Page selects a window of an ordered result set
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}
