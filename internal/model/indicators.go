package model

import "github.com/guregu/null/v6"

// IndicatorSeries is aligned 1:1 with a Series. An invalid entry means the
// value is undefined at that position (insufficient history or a degenerate window).
type IndicatorSeries []null.Float

// NewIndicatorSeries returns n undefined entries.
func NewIndicatorSeries(n int) IndicatorSeries {
	return make(IndicatorSeries, n)
}

// FromFloats wraps plain values; every entry is defined.
func FromFloats(values []float64) IndicatorSeries {
	out := make(IndicatorSeries, len(values))
	for i, v := range values {
		out[i] = null.FloatFrom(v)
	}
	return out
}

// Last returns the final entry, or an undefined value for an empty series.
func (s IndicatorSeries) Last() null.Float {
	if len(s) == 0 {
		return null.Float{}
	}
	return s[len(s)-1]
}

// Defined counts the defined entries.
func (s IndicatorSeries) Defined() int {
	n := 0
	for _, v := range s {
		if v.Valid {
			n++
		}
	}
	return n
}

// Enriched is a Series joined with every computed indicator column and the
// estimator outputs of one run.
type Enriched struct {
	Series *Series

	BBMiddle   IndicatorSeries
	BBUpper    IndicatorSeries
	BBLower    IndicatorSeries
	RSI        IndicatorSeries
	MACD       IndicatorSeries
	MACDSignal IndicatorSeries
	MACDHist   IndicatorSeries
	CMF        IndicatorSeries
	OBV        IndicatorSeries

	Support         null.Float
	Resistance      null.Float
	VolatilityProxy null.Float
}

// Column names of the enriched table, in export order after the OHLCV fields.
var IndicatorColumns = []string{
	"bb_ma", "bb_upper", "bb_lower",
	"rsi", "macd", "macd_signal", "macd_hist",
	"cmf", "obv",
}

// Columns returns the indicator columns in IndicatorColumns order.
func (e *Enriched) Columns() []IndicatorSeries {
	return []IndicatorSeries{
		e.BBMiddle, e.BBUpper, e.BBLower,
		e.RSI, e.MACD, e.MACDSignal, e.MACDHist,
		e.CMF, e.OBV,
	}
}
