package rounddomain

import (
	"math"
	"math/big"
	"slices"
)

const (
	// IndexWindow is how many of the most recent differentials are considered.
	IndexWindow = 20
	// FullWindowCount is how many differentials are averaged once the window is full.
	FullWindowCount = 8
	// MinCounted is the floor (and, for short histories, the cap) on averaged differentials.
	MinCounted = 3
	// halfCountThreshold is the history length from which half of the differentials count.
	halfCountThreshold = 8
)

// CountedDifferentials returns how many of the lowest differentials are averaged
// for a history of n differentials.
func CountedDifferentials(n int) int {
	switch {
	case n >= IndexWindow:
		return FullWindowCount
	case n >= halfCountThreshold:
		return max(MinCounted, n/2)
	default:
		return min(MinCounted, n)
	}
}

// HandicapIndex computes the index from differentials ordered oldest first.
// Only the last IndexWindow entries are considered. Zero rounds yield 0.
func HandicapIndex(differentials []float64) float64 {
	window := differentials
	if len(window) > IndexWindow {
		window = window[len(window)-IndexWindow:]
	}

	sorted := slices.Clone(window)
	slices.Sort(sorted)

	take := CountedDifferentials(len(sorted))
	var sum float64
	for _, d := range sorted[:take] {
		sum += d
	}

	avg := RoundToTenth(sum / float64(max(1, take)))
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return 0
	}
	return avg
}

// RunningIndex returns the index after each differential is added, in input order.
func RunningIndex(differentials []float64) []float64 {
	out := make([]float64, len(differentials))
	for i := range differentials {
		out[i] = HandicapIndex(differentials[:i+1])
	}
	return out
}

// RoundToTenth rounds to one decimal place the way a decimal rendering does:
// the exact binary value is rounded, halves away from zero. 1.45 is stored
// just below 1.45 and so rounds to 1.4. Non-finite values are returned as is.
func RoundToTenth(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	x := new(big.Float).SetPrec(256).SetFloat64(math.Abs(v))
	x.Mul(x, big.NewFloat(10))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int(nil)

	out := float64(n.Int64()) / 10
	if out == 0 {
		return 0
	}
	return math.Copysign(out, v)
}
