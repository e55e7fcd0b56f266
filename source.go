package keyset

import (
	"context"

	"gorm.io/gorm"
)

// Source is the row store a Pager fetches from. A source reports the ordering
// it was configured with and executes one bounded fetch per page: a fresh
// request built from the supplied boundary filter, replacement ordering and
// row limit. The boundary may be nil, meaning no filter.
//
// Fetch must return rows in the requested ordering. A nil context must be
// tolerated the same way the underlying store tolerates it. Sources may be
// called concurrently; each call is independent.
type Source[T any] interface {
	Ordering() Orderings
	Fetch(ctx context.Context, boundary *Boundary, order Orderings, limit int) ([]T, error)
}

// GormSource adapts a gorm query to Source. The base query may carry any
// filters, joins or scopes; the ordering is supplied explicitly so the pager
// can invert it when walking backward instead of digging it out of gorm's
// statement internals.
type GormSource[T any] struct {
	db   *gorm.DB
	sort Orderings
}

func NewGormSource[T any](db *gorm.DB, orderBy ...OrderBy) *GormSource[T] {
	return &GormSource[T]{
		db:   db,
		sort: orderBy,
	}
}

// Ordering - implements Source.
func (s *GormSource[T]) Ordering() Orderings {
	if s == nil {
		return nil
	}

	return s.sort
}

// Fetch - implements Source. Each call derives a new session from the base
// query, so repeated fetches never see each other's clauses.
func (s *GormSource[T]) Fetch(ctx context.Context, boundary *Boundary, order Orderings, limit int) ([]T, error) {
	db := s.db.WithContext(ctx)
	db = boundary.Apply(db)
	db = order.Apply(db)
	db = db.Limit(limit)

	var rows []T
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

var _ Source[any] = (*GormSource[any])(nil)
