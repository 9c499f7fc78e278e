package moderator

const (
	MaxLimit     = 100
	DefaultLimit = 10
)

// isNormalizedLimitMax clamps limit into [1, maxLimit], substituting
// DefaultLimit for non-positive values. The flag reports whether limit was
// already valid.
func isNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	if limit <= 0 {
		return DefaultLimit, false
	} else if limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := isNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxLimit)
}
