package stats

import "math"

// Mean calculates the arithmetic mean of values.
// The second result is false when values is empty.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// MeanOrZero is Mean with 0 substituted for an empty input.
func MeanOrZero(values []float64) float64 {
	m, _ := Mean(values)
	return m
}

// WeightedMean calculates sum(v*w)/sum(w).
// Missing weights (index past len(weights)) count as 1.
// The second result is false when values is empty or the weights sum to zero.
func WeightedMean(values, weights []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	var sumWeighted, sumWeights float64
	for i, v := range values {
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		sumWeighted += v * w
		sumWeights += w
	}

	if sumWeights == 0 {
		return 0, false
	}
	return sumWeighted / sumWeights, true
}

// Clip bounds v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CountIf counts the elements for which pred is true.
func CountIf[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}
