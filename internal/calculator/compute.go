package calculator

import (
	"MarketSentinel/internal/model"
)

// Compute runs every indicator and estimator over the series. It never
// mutates the series and holds no state between calls.
func Compute(series *model.Series, p Params) (*model.Enriched, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if series == nil || series.Len() == 0 {
		return nil, model.ErrEmptySeries
	}

	closes := series.Closes()
	e := &model.Enriched{Series: series}

	e.BBMiddle, e.BBUpper, e.BBLower = BollingerBands(closes, p.BollingerWindow, p.BollingerMult, p.StdDev)
	e.RSI = CalculateRSI(closes, p.RSIPeriod)
	e.MACD, e.MACDSignal, e.MACDHist = CalculateMACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	e.CMF = CalculateCMF(series.Bars, p.CMFPeriod)
	e.OBV = CalculateOBV(series.Bars)

	e.Support, e.Resistance = CalculateLevels(series.Bars, p.LevelWindow, p.LevelRolling)
	e.VolatilityProxy = HistoricalVolatility(closes, p.VolatilityWindow, p.MinReturns, p.AnnualizationDays, p.StdDev)
	return e, nil
}
