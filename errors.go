package keyset

import "errors"

var (
	// ErrMalformedCursor reports a page token that is not valid base64/JSON
	// or does not carry the expected payload shape.
	ErrMalformedCursor = errors.New("malformed cursor")

	// ErrOrderingMismatch reports a cursor whose value count differs from the
	// column count of the active ordering. Such a cursor was produced under a
	// different ordering and cannot position this one.
	ErrOrderingMismatch = errors.New("cursor does not match ordering")

	// ErrInvalidLimit reports a requested page limit below 1.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrStoreFailure wraps any error returned by a Source fetch. The pager
	// never retries; retry policy belongs to the store layer.
	ErrStoreFailure = errors.New("store failure")
)
