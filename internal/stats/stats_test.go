package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean_SkipsNaN(t *testing.T) {
	assert.InDelta(t, 2.0, Mean([]float64{1, math.NaN(), 3}), 1e-9)
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Mean([]float64{math.NaN()})))
}

func TestSampleStd_UsesN1Denominator(t *testing.T) {
	// Sample std of {1,2,3,4} is sqrt(5/3).
	assert.InDelta(t, math.Sqrt(5.0/3.0), SampleStd([]float64{1, 2, 3, 4}), 1e-9)

	// Fewer than two valid observations has no sample std.
	assert.True(t, math.IsNaN(SampleStd([]float64{5})))
	assert.True(t, math.IsNaN(SampleStd([]float64{5, math.NaN()})))
}

func TestQuantile_LinearInterpolation(t *testing.T) {
	xs := []float64{1, 2, 3, 4}

	// pos = 0.25*3 = 0.75 → 1 + 0.75*(2-1).
	assert.InDelta(t, 1.75, Quantile(xs, 0.25), 1e-9)
	assert.InDelta(t, 3.25, Quantile(xs, 0.75), 1e-9)
	assert.InDelta(t, 2.5, Median(xs), 1e-9)

	assert.InDelta(t, 1.0, Quantile(xs, 0), 1e-9)
	assert.InDelta(t, 4.0, Quantile(xs, 1), 1e-9)
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestMinMax_SkipNaN(t *testing.T) {
	xs := []float64{math.NaN(), 3, -1, 7}
	assert.Equal(t, -1.0, Min(xs))
	assert.Equal(t, 7.0, Max(xs))
	assert.True(t, math.IsNaN(Min(nil)))
}

func TestClip_Bounds(t *testing.T) {
	assert.Equal(t, 0.0, Clip(-5, 0, 1))
	assert.Equal(t, 1.0, Clip(5, 0, 1))
	assert.Equal(t, 0.5, Clip(0.5, 0, 1))
}

func TestSlope_FitsOLSIgnoringNaN(t *testing.T) {
	slope, ok := Slope([]float64{0, 100, 200, 300})
	assert.True(t, ok)
	assert.InDelta(t, 100.0, slope, 1e-9)

	// NaN rows keep their index, they are not compacted.
	slope, ok = Slope([]float64{0, math.NaN(), 200})
	assert.True(t, ok)
	assert.InDelta(t, 100.0, slope, 1e-9)

	_, ok = Slope([]float64{42})
	assert.False(t, ok)
	_, ok = Slope([]float64{math.NaN(), 1, math.NaN()})
	assert.False(t, ok)
}

func TestValid_FiltersNaN(t *testing.T) {
	assert.Equal(t, []float64{1, 3}, Valid([]float64{1, math.NaN(), 3}))
}
