package services

// ReverseScore maps a zero-based Likert value to its reverse-scored value
// on a scale whose highest value is max (e.g., 4 for a five-point scale).
// Out-of-range values are clamped before inversion.
func ReverseScore(raw, max int) int {
	if max < 1 {
		return raw
	}
	return max - clamp(raw, 0, max)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
