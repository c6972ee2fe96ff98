// Package stats provides the explicit reductions used by the aggregation and
// comparison layers. Every function is total: undefined results are reported
// through the ok return instead of NaN or a panic.
package stats

import "math"

// Mean returns the arithmetic mean. ok is false for an empty slice.
func Mean(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), true
}

// StdDev returns the population standard deviation. ok is false for an
// empty slice.
func StdDev(xs []float64) (float64, bool) {
	m, ok := Mean(xs)
	if !ok {
		return 0, false
	}
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs))), true
}

// Pearson returns the Pearson correlation coefficient between two equal-length
// samples. ok is false when fewer than two pairs are given, the lengths
// differ, or either sample has zero variance.
func Pearson(xs, ys []float64) (float64, bool) {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return 0, false
	}

	mx, _ := Mean(xs)
	my, _ := Mean(ys)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	return sxy / math.Sqrt(sxx*syy), true
}

// Ptr boxes a value for nullable statistics fields.
func Ptr(v float64) *float64 { return &v }
