package keyset

import (
	"context"
	"fmt"
	"sort"
)

// SliceSource serves pages from an in-memory slice. It is handy for tests,
// fixtures and small cached datasets. Named field access goes through the
// same Getters used for cursor encoding, so one getter map drives both the
// store and the pager.
type SliceSource[T any] struct {
	rows    []T
	getters Getters[T]
	sort    Orderings
}

func NewSliceSource[T any](rows []T, getters Getters[T], orderBy ...OrderBy) *SliceSource[T] {
	return &SliceSource[T]{
		rows:    rows,
		getters: getters,
		sort:    orderBy,
	}
}

// Ordering - implements Source.
func (s *SliceSource[T]) Ordering() Orderings {
	if s == nil {
		return nil
	}

	return s.sort
}

// Fetch - implements Source. Filters the backing slice through the boundary,
// sorts a copy by the requested ordering and returns at most limit rows. The
// backing slice is never reordered.
//
// Comparison semantics mirror SQL, like Boundary.Match: rows whose ordering
// columns hold NULL (or otherwise incomparable) values sort as ties and never
// pass a cursor boundary, so they only ever appear on an unfiltered first
// page. Ordering columns should be non-NULL for gapless traversal.
func (s *SliceSource[T]) Fetch(_ context.Context, boundary *Boundary, order Orderings, limit int) ([]T, error) {
	for _, orderBy := range order {
		if _, ok := s.getters[orderBy.Column]; !ok {
			return nil, fmt.Errorf("cannot find getter for column '%s' met in ordering", orderBy.Column)
		}
	}

	filtered := make([]T, 0, len(s.rows))
	for _, row := range s.rows {
		if boundary.Match(s.valueOf(row)) {
			filtered = append(filtered, row)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		for _, orderBy := range order {
			getter := s.getters[orderBy.Column]

			cmp, ok := compareScalars(getter(filtered[i]), getter(filtered[j]))
			if !ok || cmp == 0 {
				continue
			}

			if orderBy.Direction == DirectionDESC {
				return cmp > 0
			}

			return cmp < 0
		}

		return false
	})

	if limit >= 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}

	return filtered, nil
}

func (s *SliceSource[T]) valueOf(row T) func(column string) any {
	return func(column string) any {
		getter, ok := s.getters[column]
		if !ok {
			return nil
		}

		return getter(row)
	}
}

var _ Source[any] = (*SliceSource[any])(nil)
