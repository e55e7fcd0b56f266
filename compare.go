package keyset

import (
	"strings"
	"time"
)

// compareScalars orders two scalar values of the kinds a cursor can carry:
// numbers, strings, timestamps and booleans. A decode round-trip turns
// numbers into float64 and timestamps into RFC3339 strings, so numerics are
// normalized through float64 and time-looking strings are re-parsed before
// comparing. Returns ok = false for NULLs and for kinds that do not order
// against each other.
func compareScalars(a, b any) (int, bool) {
	a, b = parseAnyValue(a), parseAnyValue(b)
	if a == nil || b == nil {
		return 0, false
	}

	if aFloat, aOk := toFloat(a); aOk {
		bFloat, bOk := toFloat(b)
		if !bOk {
			return 0, false
		}

		switch {
		case aFloat < bFloat:
			return -1, true
		case aFloat > bFloat:
			return 1, true
		default:
			return 0, true
		}
	}

	switch at := a.(type) {
	case time.Time:
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}

		return at.Compare(bt), true
	case string:
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}

		return strings.Compare(at, bs), true
	case bool:
		bb, ok := b.(bool)
		if !ok {
			return 0, false
		}

		// false orders before true, matching SQL boolean ordering.
		return boolToInt(at) - boolToInt(bb), true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch vt := v.(type) {
	case int:
		return float64(vt), true
	case int8:
		return float64(vt), true
	case int16:
		return float64(vt), true
	case int32:
		return float64(vt), true
	case int64:
		return float64(vt), true
	case uint:
		return float64(vt), true
	case uint8:
		return float64(vt), true
	case uint16:
		return float64(vt), true
	case uint32:
		return float64(vt), true
	case uint64:
		return float64(vt), true
	case float32:
		return float64(vt), true
	case float64:
		return vt, true
	default:
		return 0, false
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
