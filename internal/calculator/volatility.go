package calculator

import (
	"fmt"
	"math"

	"github.com/guregu/null/v6"

	"MarketSentinel/internal/model"
)

// LogReturns returns ln(c[t]) - ln(c[t-1]); the first entry is undefined.
func LogReturns(closes []float64) model.IndicatorSeries {
	out := model.NewIndicatorSeries(len(closes))
	for i := 1; i < len(closes); i++ {
		out[i] = finite(math.Log(closes[i]) - math.Log(closes[i-1]))
	}
	return out
}

// HistoricalVolatility annualizes the standard deviation of the last window
// log-returns. It is undefined while fewer than minReturns returns exist.
func HistoricalVolatility(closes []float64, window, minReturns int, annualization float64, conv StdDevConvention) null.Float {
	returns := LogReturns(closes)
	if returns.Defined() < minReturns {
		return null.Float{}
	}
	sigma := RollingStdDev(returns, window, conv).Last()
	if !sigma.Valid {
		return null.Float{}
	}
	return finite(sigma.Float64 * math.Sqrt(annualization))
}

// VolatilityNote explains what the volatility proxy is.
func VolatilityNote(p Params) string {
	return fmt.Sprintf("historical volatility: %d-day std dev of log returns (%s), annualized over %g trading days; "+
		"a proxy used in place of at-the-money implied volatility, not implied volatility itself",
		p.VolatilityWindow, p.StdDev, p.AnnualizationDays)
}
