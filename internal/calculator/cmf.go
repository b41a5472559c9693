package calculator

import (
	"github.com/guregu/null/v6"

	"MarketSentinel/internal/model"
)

// CalculateCMF computes Chaikin Money Flow over period.
//
// A bar whose high equals its low has no money-flow multiplier, which leaves
// every window containing it undefined. A window with zero total volume is
// undefined as well.
func CalculateCMF(bars []model.Bar, period int) model.IndicatorSeries {
	n := len(bars)
	mfv := model.NewIndicatorSeries(n)
	volumes := model.NewIndicatorSeries(n)
	for i, b := range bars {
		vol := float64(b.Volume)
		volumes[i] = null.FloatFrom(vol)
		rng := b.High - b.Low
		if rng == 0 {
			continue
		}
		mult := ((b.Close - b.Low) - (b.High - b.Close)) / rng
		mfv[i] = null.FloatFrom(mult * vol)
	}

	flowSum := RollingSum(mfv, period)
	volSum := RollingSum(volumes, period)

	out := model.NewIndicatorSeries(n)
	for i := 0; i < n; i++ {
		if !flowSum[i].Valid || !volSum[i].Valid || volSum[i].Float64 == 0 {
			continue
		}
		out[i] = finite(flowSum[i].Float64 / volSum[i].Float64)
	}
	return out
}
