package calculator

import (
	"math"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"MarketSentinel/internal/model"
)

// rolling applies fn to every full window of in. A window that is not yet
// full, or that holds any undefined entry, yields an undefined value, and so
// does a non-finite result.
func rolling(in model.IndicatorSeries, window int, fn func([]float64) float64) model.IndicatorSeries {
	out := model.NewIndicatorSeries(len(in))
	if window <= 0 {
		return out
	}
	buf := make([]float64, window)
	for i := window - 1; i < len(in); i++ {
		complete := true
		for j := 0; j < window; j++ {
			v := in[i-window+1+j]
			if !v.Valid {
				complete = false
				break
			}
			buf[j] = v.Float64
		}
		if !complete {
			continue
		}
		out[i] = finite(fn(buf))
	}
	return out
}

func finite(v float64) null.Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}

// RollingMean is the simple moving average over window.
func RollingMean(in model.IndicatorSeries, window int) model.IndicatorSeries {
	return rolling(in, window, func(x []float64) float64 { return stat.Mean(x, nil) })
}

// RollingSum sums each full window.
func RollingSum(in model.IndicatorSeries, window int) model.IndicatorSeries {
	return rolling(in, window, floats.Sum)
}

// RollingMin is the minimum of each full window.
func RollingMin(in model.IndicatorSeries, window int) model.IndicatorSeries {
	return rolling(in, window, floats.Min)
}

// RollingMax is the maximum of each full window.
func RollingMax(in model.IndicatorSeries, window int) model.IndicatorSeries {
	return rolling(in, window, floats.Max)
}

// RollingStdDev is the standard deviation of each full window. A sample
// deviation over a single observation is undefined.
func RollingStdDev(in model.IndicatorSeries, window int, conv StdDevConvention) model.IndicatorSeries {
	return rolling(in, window, func(x []float64) float64 { return stdDev(x, conv) })
}

// stdDev clamps the compensated variance at zero so a window of identical
// values never turns into NaN through a rounding residue.
func stdDev(x []float64, conv StdDevConvention) float64 {
	var v float64
	if conv == Population {
		v = stat.PopVariance(x, nil)
	} else {
		v = stat.Variance(x, nil)
	}
	return math.Sqrt(math.Max(v, 0))
}

// EMA is the recursive exponential moving average with alpha = 2/(span+1),
// seeded with the first value. It is defined from the first observation on.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
