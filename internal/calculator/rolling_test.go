package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSentinel/internal/model"
)

func TestRolling_UndefinedPrefix(t *testing.T) {
	in := model.FromFloats([]float64{1, 2, 3, 4, 5})
	out := RollingMean(in, 3)
	require.Len(t, out, 5)
	assert.False(t, out[0].Valid)
	assert.False(t, out[1].Valid)
	assert.InDelta(t, 2.0, out[2].Float64, 1e-12)
	assert.InDelta(t, 3.0, out[3].Float64, 1e-12)
	assert.InDelta(t, 4.0, out[4].Float64, 1e-12)
}

func TestRolling_UndefinedInputPoisonsWindow(t *testing.T) {
	in := model.FromFloats([]float64{1, 2, 3, 4, 5, 6})
	in[2].Valid = false
	out := RollingSum(in, 2)
	assert.True(t, out[1].Valid)
	assert.False(t, out[2].Valid)
	assert.False(t, out[3].Valid)
	assert.Equal(t, 9.0, out[4].Float64)
}

func TestRolling_MinMax(t *testing.T) {
	in := model.FromFloats([]float64{5, 3, 8, 1, 9, 2})
	assert.Equal(t, 1.0, RollingMin(in, 3).Last().Float64)
	assert.Equal(t, 9.0, RollingMax(in, 3).Last().Float64)
}

func TestRollingStdDev_Conventions(t *testing.T) {
	in := model.FromFloats([]float64{1, 2, 3})
	sample := RollingStdDev(in, 3, Sample).Last()
	pop := RollingStdDev(in, 3, Population).Last()
	require.True(t, sample.Valid)
	require.True(t, pop.Valid)
	assert.InDelta(t, 1.0, sample.Float64, 1e-12)
	assert.InDelta(t, math.Sqrt(2.0/3.0), pop.Float64, 1e-12)
}

func TestRollingStdDev_SingleObservation(t *testing.T) {
	in := model.FromFloats([]float64{4, 5})
	assert.False(t, RollingStdDev(in, 1, Sample).Last().Valid)
	pop := RollingStdDev(in, 1, Population).Last()
	require.True(t, pop.Valid)
	assert.Equal(t, 0.0, pop.Float64)
}

func TestRollingStdDev_ConstantWindowIsZero(t *testing.T) {
	in := model.FromFloats([]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1})
	for _, conv := range []StdDevConvention{Sample, Population} {
		v := RollingStdDev(in, 7, conv).Last()
		require.True(t, v.Valid, conv)
		assert.InDelta(t, 0.0, v.Float64, 1e-15, conv)
	}
}

func TestEMA_SeededWithFirstValue(t *testing.T) {
	got := EMA([]float64{1, 2, 3}, 3)
	assert.Equal(t, []float64{1, 1.5, 2.25}, got)
	assert.Empty(t, EMA(nil, 3))
}
