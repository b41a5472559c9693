package calculator

import (
	"github.com/guregu/null/v6"

	"MarketSentinel/internal/model"
)

// CalculateOBV accumulates on-balance volume bar by bar, starting at zero.
// Volume is added on an up close, subtracted on a down close and carried on
// an unchanged close.
func CalculateOBV(bars []model.Bar) model.IndicatorSeries {
	out := model.NewIndicatorSeries(len(bars))
	if len(bars) == 0 {
		return out
	}
	var obv int64
	out[0] = null.FloatFrom(0)
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			obv += bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			obv -= bars[i].Volume
		}
		out[i] = null.FloatFrom(float64(obv))
	}
	return out
}
