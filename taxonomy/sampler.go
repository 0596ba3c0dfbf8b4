package taxonomy

// Pick walks the cumulative distribution of weights and returns the first
// index whose running total exceeds u, where u is a uniform draw in [0, 1).
//
// Weights are taken as given and are not normalized. When they sum to less
// than one, the shortfall lands on the last index; when they sum to more,
// trailing entries are reachable less often than their weight suggests.
func Pick(weights []float64, u float64) int {
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if u < cumulative {
			return i
		}
	}
	return len(weights) - 1
}
