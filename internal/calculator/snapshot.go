package calculator

import (
	"math"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"MarketSentinel/internal/model"
)

// Assemble joins the last bar with the last value of every indicator into a
// Snapshot. Prices and levels are rounded to 2 decimals, the volatility
// proxy to 4; indicator values are passed through unrounded.
func Assemble(e *model.Enriched, p Params) (*model.Snapshot, error) {
	if e == nil || e.Series == nil || e.Series.Len() == 0 {
		return nil, model.ErrEmptySeries
	}
	last := e.Series.Last()

	return &model.Snapshot{
		Instrument: e.Series.Symbol,
		AsOfDate:   last.Date.Format(model.DateLayout),
		Price: model.PriceQuad{
			Close:  round(last.Close, 2),
			Open:   round(last.Open, 2),
			High:   round(last.High, 2),
			Low:    round(last.Low, 2),
			Volume: last.Volume,
		},
		Indicators: model.IndicatorValues{
			Bollinger: model.Bollinger{
				MA:    latest(e.BBMiddle),
				Upper: latest(e.BBUpper),
				Lower: latest(e.BBLower),
			},
			RSI: latest(e.RSI),
			MACD: model.MACD{
				Line:   latest(e.MACD),
				Signal: latest(e.MACDSignal),
				Hist:   latest(e.MACDHist),
			},
			CMF: latest(e.CMF),
			OBV: latest(e.OBV),
		},
		Levels: model.Levels{
			SupportHint:    roundNull(e.Support, 2),
			ResistanceHint: roundNull(e.Resistance, 2),
		},
		Volatility: model.Volatility{
			Proxy: roundNull(e.VolatilityProxy, 4),
			Note:  VolatilityNote(p),
		},
	}, nil
}

func latest(s model.IndicatorSeries) null.Float {
	return sanitize(s.Last())
}

// sanitize maps NaN and infinities to undefined.
func sanitize(v null.Float) null.Float {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
		return null.Float{}
	}
	return v
}

func roundNull(v null.Float, places int32) null.Float {
	v = sanitize(v)
	if !v.Valid {
		return v
	}
	return null.FloatFrom(round(v.Float64, places))
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
