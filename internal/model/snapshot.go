package model

import "github.com/guregu/null/v6"

// Snapshot is the per-run summary of the latest bar and indicator values.
// Undefined values marshal as JSON null.
type Snapshot struct {
	Instrument string          `json:"instrument"`
	AsOfDate   string          `json:"as_of_date"`
	Price      PriceQuad       `json:"price"`
	Indicators IndicatorValues `json:"indicators"`
	Levels     Levels          `json:"levels"`
	Volatility Volatility      `json:"volatility"`
}

// PriceQuad is the latest bar, prices rounded to 2 decimals.
type PriceQuad struct {
	Close  float64 `json:"close"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume int64   `json:"volume"`
}

// Bollinger holds the middle band and the bands mult standard deviations away.
type Bollinger struct {
	MA    null.Float `json:"ma"`
	Upper null.Float `json:"upper"`
	Lower null.Float `json:"lower"`
}

// MACD holds the MACD line, its signal EMA and their difference.
type MACD struct {
	Line   null.Float `json:"line"`
	Signal null.Float `json:"signal"`
	Hist   null.Float `json:"hist"`
}

// IndicatorValues are the indicator readings at the as-of date.
type IndicatorValues struct {
	Bollinger Bollinger  `json:"bollinger"`
	RSI       null.Float `json:"rsi"`
	MACD      MACD       `json:"macd"`
	CMF       null.Float `json:"cmf"`
	OBV       null.Float `json:"obv"`
}

// Levels are naive support and resistance hints from recent lows and highs.
type Levels struct {
	SupportHint    null.Float `json:"support_hint"`
	ResistanceHint null.Float `json:"resistance_hint"`
}

// Volatility is the annualized historical volatility proxy with its caveat.
type Volatility struct {
	Proxy null.Float `json:"proxy"`
	Note  string     `json:"note"`
}
