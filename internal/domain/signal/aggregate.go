package signal

import "github.com/forPelevin/cinedex/internal/types"

// Mean returns the arithmetic mean of xs, skipping non-finite values.
// An empty (or all-absent) input yields 0.0 rather than an error: an
// un-sampled metric deliberately reads as "low", not "unknown", for
// compatibility with existing indices.
func Mean(xs []float64) float64 {
	sum := 0.0
	n := 0
	for _, x := range xs {
		if !types.Finite(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}
