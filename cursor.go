package keyset

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

var _encoder = base64.RawURLEncoding

// Cursor is an opaque pagination boundary: one value per ordering column, in
// ordering order, plus the direction of travel it was emitted for.
//
// PointsToNext = true means the cursor was taken from the LAST row of a page
// and selects rows after that boundary, continuing forward. PointsToNext =
// false means it was taken from the FIRST row and selects rows before it.
//
// IMPORTANT:
// A cursor is only valid against the exact ordering that produced it. The
// ordering MUST contain at least one unique column, otherwise rows tied on
// every ordering column can be skipped or repeated across pages.
type Cursor struct {
	values       []any
	pointsToNext bool
}

// cursorPayload is the wire form of a Cursor: compact JSON, then base64.
type cursorPayload struct {
	Values       []any `json:"v"`
	PointsToNext bool  `json:"n"`
}

func NewCursor(values []any, pointsToNext bool) *Cursor {
	return &Cursor{
		values:       values,
		pointsToNext: pointsToNext,
	}
}

// EncodeCursor extracts one value per ordering column from row (via getters,
// in ordering order) and wraps them into a Cursor. Returns an error if a
// column named in the ordering has no getter.
func EncodeCursor[T any](sort Orderings, row T, getters Getters[T], pointsToNext bool) (*Cursor, error) {
	values := make([]any, 0, len(sort))
	for _, orderBy := range sort {
		getter, ok := getters[orderBy.Column]
		if !ok {
			return nil, fmt.Errorf("cannot find getter for column '%s' met in ordering", orderBy.Column)
		}

		values = append(values, getter(row))
	}

	return &Cursor{
		values:       values,
		pointsToNext: pointsToNext,
	}, nil
}

// DecodeCursor attempts to parse a base64-encoded page token into *Cursor.
// An empty token decodes to a nil cursor, meaning the first page.
//
// Decoding checks the payload shape only. Whether the value count fits the
// active ordering is checked when the boundary filter is built, because only
// the caller knows which ordering the token is paired with.
func DecodeCursor(b64String string) (*Cursor, error) {
	if len(b64String) == 0 {
		return nil, nil
	}

	jsonData, err := _encoder.DecodeString(b64String)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode base64 encoded cursor: %v", ErrMalformedCursor, err)
	}

	// Pointer fields distinguish "absent" from zero values.
	var payload struct {
		Values       *[]any `json:"v"`
		PointsToNext *bool  `json:"n"`
	}
	if err = json.Unmarshal(jsonData, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal json encoded cursor: %v", ErrMalformedCursor, err)
	}

	if payload.Values == nil || payload.PointsToNext == nil {
		return nil, fmt.Errorf("%w: cursor payload misses required fields", ErrMalformedCursor)
	}

	return &Cursor{
		values:       *payload.Values,
		pointsToNext: *payload.PointsToNext,
	}, nil
}

// String - implements fmt.Stringer. Returns the URL-safe page token form of
// the cursor. The token carries no secrets and is stable across restarts.
func (c *Cursor) String() string {
	if c.IsEmpty() {
		return ""
	}

	jTok, err := json.Marshal(cursorPayload{
		Values:       c.values,
		PointsToNext: c.pointsToNext,
	})
	if err != nil {
		panic(fmt.Errorf("cannot marshal cursor value: %w", err))
	}

	return _encoder.EncodeToString(jTok)
}

func (c *Cursor) IsEmpty() bool {
	return c == nil || len(c.values) == 0
}

// Values returns the boundary values in ordering order.
//
// IMPORTANT:
// After a decode round-trip, numbers come back as float64 and timestamps as
// RFC3339 strings; the boundary filter re-parses them before comparing.
func (c *Cursor) Values() []any {
	if c == nil {
		return nil
	}

	return c.values
}

// PointsToNext reports the direction of travel the cursor was emitted for.
func (c *Cursor) PointsToNext() bool {
	if c == nil {
		return false
	}

	return c.pointsToNext
}

var _ fmt.Stringer = (*Cursor)(nil)
