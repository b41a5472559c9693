package calculator

import (
	"github.com/guregu/null/v6"

	"MarketSentinel/internal/model"
)

// CalculateRSI computes the relative strength index of closes using simple
// rolling means of gains and losses over period.
//
// The first period positions are undefined, as is every position where the
// average loss is zero (the relative strength would be infinite).
func CalculateRSI(closes []float64, period int) model.IndicatorSeries {
	n := len(closes)
	gains := model.NewIndicatorSeries(n)
	losses := model.NewIndicatorSeries(n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else if change < 0 {
			loss = -change
		}
		gains[i] = null.FloatFrom(gain)
		losses[i] = null.FloatFrom(loss)
	}

	avgGain := RollingMean(gains, period)
	avgLoss := RollingMean(losses, period)

	out := model.NewIndicatorSeries(n)
	for i := 0; i < n; i++ {
		if !avgGain[i].Valid || !avgLoss[i].Valid || avgLoss[i].Float64 == 0 {
			continue
		}
		rs := avgGain[i].Float64 / avgLoss[i].Float64
		out[i] = finite(100.0 - 100.0/(1.0+rs))
	}
	return out
}
