package calculator

import (
	"github.com/guregu/null/v6"

	"MarketSentinel/internal/model"
)

// CalculateLevels derives naive support and resistance hints from the
// trailing window bars: the rolling minimum of lows and rolling maximum of
// highs over the last rollingWindow bars. Both are undefined when fewer than
// rollingWindow bars exist.
func CalculateLevels(bars []model.Bar, window, rollingWindow int) (support, resistance null.Float) {
	recent := bars
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}
	if len(recent) < rollingWindow {
		return null.Float{}, null.Float{}
	}

	lows := make([]float64, len(recent))
	highs := make([]float64, len(recent))
	for i, b := range recent {
		lows[i] = b.Low
		highs[i] = b.High
	}
	support = RollingMin(model.FromFloats(lows), rollingWindow).Last()
	resistance = RollingMax(model.FromFloats(highs), rollingWindow).Last()
	return support, resistance
}
