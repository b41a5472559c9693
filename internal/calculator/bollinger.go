package calculator

import (
	"github.com/guregu/null/v6"

	"MarketSentinel/internal/model"
)

// BollingerBands computes the middle (SMA), upper and lower bands of closes
// over window, with the bands mult standard deviations away from the SMA.
func BollingerBands(closes []float64, window int, mult float64, conv StdDevConvention) (middle, upper, lower model.IndicatorSeries) {
	in := model.FromFloats(closes)
	middle = RollingMean(in, window)
	sigma := RollingStdDev(in, window, conv)

	upper = model.NewIndicatorSeries(len(closes))
	lower = model.NewIndicatorSeries(len(closes))
	for i := range closes {
		if !middle[i].Valid || !sigma[i].Valid {
			continue
		}
		width := mult * sigma[i].Float64
		upper[i] = null.FloatFrom(middle[i].Float64 + width)
		lower[i] = null.FloatFrom(middle[i].Float64 - width)
	}
	return middle, upper, lower
}
