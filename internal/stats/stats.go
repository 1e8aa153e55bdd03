// Package stats holds the small numeric kernel shared by the feature,
// anomaly and analytics packages. All helpers skip NaN inputs, since NaN is
// how the pipeline encodes undefined observations.
package stats

import (
	"math"
	"sort"
)

// Valid returns the non-NaN values of xs.
func Valid(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// Mean returns the arithmetic mean of the valid values, NaN when none.
func Mean(xs []float64) float64 {
	var sum float64
	n := 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Sum returns the sum of the valid values.
func Sum(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		if !math.IsNaN(x) {
			sum += x
		}
	}
	return sum
}

// SampleStd returns the sample (n-1) standard deviation of the valid
// values. Fewer than two valid observations yield NaN.
func SampleStd(xs []float64) float64 {
	mean := Mean(xs)
	if math.IsNaN(mean) {
		return math.NaN()
	}
	var ss float64
	n := 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		d := x - mean
		ss += d * d
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	return math.Sqrt(ss / float64(n-1))
}

// Min returns the smallest valid value, NaN when none.
func Min(xs []float64) float64 {
	min := math.NaN()
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if math.IsNaN(min) || x < min {
			min = x
		}
	}
	return min
}

// Max returns the largest valid value, NaN when none.
func Max(xs []float64) float64 {
	max := math.NaN()
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if math.IsNaN(max) || x > max {
			max = x
		}
	}
	return max
}

// Quantile returns the q-quantile (0 ≤ q ≤ 1) of the valid values using
// linear interpolation between order statistics. NaN when no valid values.
func Quantile(xs []float64, q float64) float64 {
	valid := Valid(xs)
	if len(valid) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(valid))
	copy(sorted, valid)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Median returns the 0.5 quantile.
func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
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

// Slope fits an ordinary least-squares line of the valid values against
// their index and returns its slope. ok is false when fewer than two valid
// points remain or the index has no variation.
func Slope(xs []float64) (float64, bool) {
	var sumX, sumY, sumXY, sumXX float64
	n := 0
	for i, y := range xs {
		if math.IsNaN(y) {
			continue
		}
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		n++
	}
	if n < 2 {
		return 0, false
	}
	denom := float64(n)*sumXX - sumX*sumX
	if math.Abs(denom) < 1e-10 {
		return 0, false
	}
	return (float64(n)*sumXY - sumX*sumY) / denom, true
}
