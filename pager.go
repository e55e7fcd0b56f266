package keyset

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Page is one bounded window of an ordered listing. Items are in the original
// forward ordering regardless of the direction the page was reached from.
// Tokens are opaque cursor strings; an empty token means no page exists in
// that direction.
type Page[T any] struct {
	// Items result elements, at most the requested limit of them.
	Items []T `json:"items"`
	// NextPageToken selects the page after the last item. Empty when the
	// forward traversal is exhausted.
	NextPageToken string `json:"nextPageToken,omitempty"`
	// PrevPageToken selects the page before the first item. Empty on the
	// first page of the sequence.
	PrevPageToken string `json:"prevPageToken,omitempty"`
}

// Getters is a dictionary of field accessors for a row type. List the columns
// pagination orders by.
//
// Example:
//
//	keyset.Getters[models.Player]{
//		"id":          func(p models.Player) any { return p.ID },
//		"deposit_sum": func(p models.Player) any { return p.DepositSum },
//	}
type Getters[T any] map[string]func(T) any

// Pager paginates a Source with keyset cursors. It is stateless between
// calls: every page is fully determined by (ordering, token, limit), so a
// single Pager is safe for concurrent use.
type Pager[T any] struct {
	src      Source[T]
	getters  Getters[T]
	sort     Orderings
	fallback OrderBy
}

func NewPager[T any](src Source[T], getters Getters[T]) *Pager[T] {
	return &Pager[T]{
		src:     src,
		getters: getters,
	}
}

// WithSort appends sort orderings without overwriting existing ones.
// Order is preserved as if calling:
//
//	OrderBy(o1).ThenBy(o2).ThenBy(o3)...
func (p *Pager[T]) WithSort(orderBy ...OrderBy) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	for _, o := range orderBy {
		idx := slices.IndexFunc(p.sort, func(processed OrderBy) bool {
			return processed.Column == o.Column
		})

		// Remove previous occurrence (avoid duplication).
		if idx != -1 {
			p.sort = slices.Delete(p.sort, idx, idx+1)
		}

		p.sort = append(p.sort, o)
	}

	return p
}

// WithSubstitutedSort resets previous orderings and applies the provided ones.
func (p *Pager[T]) WithSubstitutedSort(orderBy ...OrderBy) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.sort = nil

	return p.WithSort(orderBy...)
}

// WithFallback overrides the ordering used when neither the pager nor its
// source define one. Defaults to DefaultOrderBy.
func (p *Pager[T]) WithFallback(orderBy OrderBy) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.fallback = orderBy

	return p
}

// GetSort returns the ordering the pager resolves for its fetches: the
// explicit sort first, then the source's configured ordering, then the
// fallback column.
func (p *Pager[T]) GetSort() Orderings {
	if p == nil {
		return Orderings{DefaultOrderBy}
	}

	if len(p.sort) > 0 {
		return p.sort
	}

	if p.src != nil {
		if sort := p.src.Ordering(); len(sort) > 0 {
			return sort
		}
	}

	if p.fallback != (OrderBy{}) {
		return Orderings{p.fallback}
	}

	return Orderings{DefaultOrderBy}
}

// Page fetches the page of at most limit rows selected by token. An empty
// token requests the first page.
//
// The fetch over-requests by one row to learn whether another page exists in
// the traversal direction without a count query. Tokens consumed here must
// have been produced under the same ordering; a token from a different
// ordering fails with ErrOrderingMismatch.
func (p *Pager[T]) Page(ctx context.Context, limit int, token string) (*Page[T], error) {
	if p == nil || p.src == nil {
		return nil, fmt.Errorf("pager has no source")
	}

	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	cursor, err := DecodeCursor(token)
	if err != nil {
		return nil, err
	}

	sort := p.GetSort()
	if err = sort.validate(); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	boundary, err := cursor.boundary(sort)
	if err != nil {
		return nil, err
	}

	// A backward cursor is served by walking the dataset in the opposite
	// direction: the store sorts inverted and returns the limit+1 rows
	// closest to the boundary.
	fetchOrder := sort
	if backward(cursor) {
		fetchOrder = sort.Inverted()
	}

	rows, err := p.src.Fetch(ctx, boundary, fetchOrder, limit+1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	return p.assemble(sort, cursor, limit, rows)
}

// assemble interprets the fetched window, which arrives in effective fetch
// ordering and holds at most limit+1 rows.
func (p *Pager[T]) assemble(sort Orderings, cursor *Cursor, limit int, rows []T) (*Page[T], error) {
	if len(rows) == 0 {
		return &Page[T]{Items: []T{}}, nil
	}

	var (
		firstPage = cursor == nil
		overflow  = len(rows) > limit
	)

	if overflow {
		// The extra row is the farthest from the boundary: last in fetch order.
		rows = rows[:limit]
	}
	if backward(cursor) {
		rows = lo.Reverse(rows)
	}

	page := &Page[T]{Items: rows}

	// A backward walk always has rows ahead of it: they are where the cursor
	// came from. A forward walk has rows ahead only when the extra row showed up.
	if overflow || backward(cursor) {
		next, err := EncodeCursor(sort, rows[len(rows)-1], p.getters, true)
		if err != nil {
			return nil, err
		}

		page.NextPageToken = next.String()
	}

	// The very first page has nothing behind it. A forward walk that consumed
	// a cursor always does; a backward walk only when the extra row showed up.
	if !firstPage && (overflow || !backward(cursor)) {
		prev, err := EncodeCursor(sort, rows[0], p.getters, false)
		if err != nil {
			return nil, err
		}

		page.PrevPageToken = prev.String()
	}

	return page, nil
}

func backward(cursor *Cursor) bool {
	return cursor != nil && !cursor.PointsToNext()
}

// RawPager is intended for API payloads. For proper code generation, inline it:
//
//	type MyFilter struct {
//	    Paging RawPager `json:",inline"`
//	}
type RawPager struct {
	// Limit - maximum number of records to return in the response.
	Limit int `json:"limit"`
	// PageToken - base64-encoded cursor token obtained from a previous Page.
	// If empty, the first page with Limit records is returned.
	PageToken string `json:"pageToken"`
}

// Decode validates PageToken and normalizes Limit into [1, MaxLimit]. The
// returned values feed straight into Pager.Page.
func (p RawPager) Decode() (limit int, token string, err error) {
	if _, err = DecodeCursor(p.PageToken); err != nil {
		return 0, "", err
	}

	return NormalizeLimit(p.Limit), p.PageToken, nil
}
