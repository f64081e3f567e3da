package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	m, ok := Mean([]float64{10, 20, 60})
	assert.True(t, ok)
	assert.InDelta(t, 30.0, m, 1e-9)

	_, ok = Mean(nil)
	assert.False(t, ok, "empty input has no mean")
	assert.Zero(t, MeanOrZero(nil))
}

func TestWeightedMean(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		weights []float64
		want    float64
		ok      bool
	}{
		{name: "equal weights", values: []float64{10, 20}, weights: []float64{1, 1}, want: 15, ok: true},
		{name: "skewed weights", values: []float64{10, 40}, weights: []float64{3, 1}, want: 17.5, ok: true},
		{name: "missing weights default to one", values: []float64{10, 20}, weights: []float64{1}, want: 15, ok: true},
		{name: "empty", values: nil, weights: nil, ok: false},
		{name: "zero weight sum", values: []float64{5}, weights: []float64{0}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WeightedMean(tt.values, tt.weights)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestClipAndRound(t *testing.T) {
	assert.Equal(t, 0.0, Clip(-5, 0, 100))
	assert.Equal(t, 100.0, Clip(130, 0, 100))
	assert.Equal(t, 42.5, Clip(42.5, 0, 100))

	assert.Equal(t, 33.3, Round1(33.333))
	assert.Equal(t, 66.7, Round1(66.666))
}

func TestCountIf(t *testing.T) {
	n := CountIf([]int{5, 31, 61, 90}, func(v int) bool { return v > 30 })
	assert.Equal(t, 3, n)
	assert.Zero(t, CountIf([]int(nil), func(int) bool { return true }))
}
