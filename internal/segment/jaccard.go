package segment

// JaccardOverlap computes the Jaccard index of two string sets: the size of
// their intersection over the size of their union. Two empty sets are
// considered identical (overlap 1). Used to decide whether a persisted
// analysis snapshot still matches the current sentence set closely enough to
// reuse its themes.
func JaccardOverlap(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	union := make(map[string]bool, len(a)+len(b))
	for _, s := range a {
		union[s] = true
	}
	intersection := 0
	for _, s := range b {
		if seen[s] {
			// count each distinct shared member once
			seen[s] = false
			intersection++
		}
		union[s] = true
	}
	return float64(intersection) / float64(len(union))
}
