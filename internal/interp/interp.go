// Package interp holds the piecewise-linear helpers shared by the position
// classifier, the script composer and the SQLite percentile query.
package interp

import "math"

// Segment maps x from [x0, x1] onto [y0, y1]. A segment with zero or negative
// width returns y0.
func Segment(x, x0, x1, y0, y1 float64) float64 {
	width := x1 - x0
	if width <= 0 {
		return y0
	}
	return y0 + (x-x0)/width*(y1-y0)
}

// Lerp returns a + t*(b-a).
func Lerp(a, b, t float64) float64 {
	return Segment(t, 0, 1, a, b)
}

// Piecewise interpolates x across ordered breakpoints xs with values ys.
// Values outside the breakpoints clamp to the first or last y. xs and ys
// must have the same length; an empty table returns 0.
func Piecewise(x float64, xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || len(ys) != n {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	for i := 1; i < n; i++ {
		if x <= xs[i] {
			return Segment(x, xs[i-1], xs[i], ys[i-1], ys[i])
		}
	}
	return ys[n-1]
}

// Percentile returns the p-th quantile (0..1) of sorted using linear
// interpolation between closest ranks, the same as percentile_cont.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lo := math.Floor(rank)
	hi := math.Ceil(rank)
	return Lerp(sorted[int(lo)], sorted[int(hi)], rank-lo)
}

// RoundHalfUp rounds to the nearest integer, with halves rounding toward
// positive infinity (-2.5 becomes -2).
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
