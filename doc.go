// Package keyset provides cursor-based (keyset) pagination over ordered,
// multi-column listings.
//
// Overview
//
// A page is fetched relative to an opaque cursor token rather than a row
// offset: the token carries the boundary row's values for every ordering
// column plus the direction of travel. Each fetch over-requests by one row,
// so the pager knows whether a next or previous page exists without issuing
// a count query. Tokens for both directions are emitted on every page, which
// makes forward and backward traversal symmetric.
//
// Key concepts
//   - Pager: orchestrates token decoding, boundary filtering, the over-fetch
//     and token emission for both traversal directions.
//   - Orderings: defines multi-column ordering with explicit directions.
//   - Source: the row store abstraction (GormSource, SliceSource).
//   - Getters: maps ordering columns to row fields for building tokens.
//
// See README for examples and usage details.
package keyset
