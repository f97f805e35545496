package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMean covers the empty slice and basic averaging.
func TestMean(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{name: "empty slice", xs: nil, want: 0},
		{name: "single value", xs: []float64{0.7}, want: 0.7},
		{name: "uniform values", xs: []float64{0.5, 0.5, 0.5}, want: 0.5},
		{name: "mixed values", xs: []float64{0.2, 0.4, 0.9}, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, mean(tt.xs), 1e-9, "mean() returned an incorrect value.")
		})
	}
}

// TestPopStdDev verifies population standard deviation against hand-computed
// values, including the plateau detection boundary.
func TestPopStdDev(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{name: "empty slice", xs: nil, want: 0},
		{name: "identical values have zero spread", xs: []float64{0.6, 0.6, 0.6, 0.6, 0.6}, want: 0},
		{name: "two symmetric values", xs: []float64{0.4, 0.8}, want: 0.2},
		{name: "known spread", xs: []float64{2, 4, 4, 4, 5, 5, 7, 9}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, popStdDev(tt.xs), 1e-9, "popStdDev() returned an incorrect value.")
		})
	}
}

// TestSlope verifies the least-squares slope used for trend detection.
func TestSlope(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{name: "too few points", xs: []float64{0.5}, want: 0},
		{name: "flat series", xs: []float64{0.5, 0.5, 0.5, 0.5}, want: 0},
		{name: "perfect ascent", xs: []float64{0.1, 0.2, 0.3, 0.4}, want: 0.1},
		{name: "perfect descent", xs: []float64{0.9, 0.7, 0.5}, want: -0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, slope(tt.xs), 1e-9, "slope() returned an incorrect value.")
		})
	}
}

// TestSampleBeta_Bounds verifies every draw stays inside the open unit
// interval across a range of shape parameters.
func TestSampleBeta_Bounds(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	shapes := [][2]float64{{1, 1}, {3, 1}, {1, 3}, {2, 2}, {0.5, 0.5}, {10, 2}}
	for _, shape := range shapes {
		for i := 0; i < 1000; i++ {
			got := sampleBeta(r, shape[0], shape[1])
			require.GreaterOrEqual(t, got, 0.0, "Beta sample must not be negative.")
			require.LessOrEqual(t, got, 1.0, "Beta sample must not exceed 1.")
		}
	}
}

// TestSampleBeta_Mean checks the empirical mean converges on the
// analytical mean alpha/(alpha+beta).
func TestSampleBeta_Mean(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	tests := []struct {
		name        string
		alpha, beta float64
	}{
		{name: "uniform prior", alpha: 1, beta: 1},
		{name: "success heavy arm", alpha: 8, beta: 2},
		{name: "failure heavy arm", alpha: 2, beta: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const draws = 20000
			sum := 0.0
			for i := 0; i < draws; i++ {
				sum += sampleBeta(r, tt.alpha, tt.beta)
			}
			want := tt.alpha / (tt.alpha + tt.beta)
			assert.InDelta(t, want, sum/draws, 0.02, "Empirical Beta mean diverged from the analytical mean.")
		})
	}
}

// TestSampleGamma_Positive verifies gamma draws are strictly positive,
// including the boosted path for shape below one.
func TestSampleGamma_Positive(t *testing.T) {
	r := rand.New(rand.NewSource(99))

	for _, shape := range []float64{0.3, 0.9, 1, 2.5, 9} {
		for i := 0; i < 500; i++ {
			got := sampleGamma(r, shape)
			require.False(t, math.IsNaN(got), "Gamma sample must not be NaN.")
			require.Greater(t, got, 0.0, "Gamma sample must be positive.")
		}
	}
}
