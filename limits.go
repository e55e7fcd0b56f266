package keyset

const (
	MaxLimit     = 100
	DefaultLimit = 10
)

// IsNormalizedLimitMax normalizes limit: non-positive values map to
// DefaultLimit, values above maxLimit are clamped to maxLimit. The boolean
// reports whether the input was already inside (0, maxLimit].
func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	if limit <= 0 {
		return DefaultLimit, false
	} else if limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxLimit)
}
