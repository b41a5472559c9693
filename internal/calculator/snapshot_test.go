package calculator

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSentinel/internal/model"
)

func run(t *testing.T, series *model.Series) *model.Snapshot {
	t.Helper()
	p := DefaultParams()
	e, err := Compute(series, p)
	require.NoError(t, err)
	snap, err := Assemble(e, p)
	require.NoError(t, err)
	return snap
}

func TestAssemble_Ramp(t *testing.T) {
	const n = 120
	series := &model.Series{Symbol: "RHM.DE", Bars: barsFromCloses(rampCloses(n, 100, 1), 1000)}
	snap := run(t, series)

	assert.Equal(t, "RHM.DE", snap.Instrument)
	assert.Equal(t, series.Last().Date.Format("2006-01-02"), snap.AsOfDate)
	assert.Equal(t, 219.0, snap.Price.Close)
	assert.Equal(t, int64(1000), snap.Price.Volume)

	require.True(t, snap.Indicators.OBV.Valid)
	assert.Equal(t, float64((n-1)*1000), snap.Indicators.OBV.Float64)
	assert.False(t, snap.Indicators.RSI.Valid, "no losses in the window")

	assert.True(t, snap.Indicators.Bollinger.MA.Valid)
	assert.InDelta(t, 209.5, snap.Indicators.Bollinger.MA.Float64, 1e-9)
	assert.True(t, snap.Indicators.MACD.Line.Valid)
	assert.True(t, snap.Indicators.CMF.Valid)

	assert.Equal(t, null.FloatFrom(214), snap.Levels.SupportHint)
	assert.Equal(t, null.FloatFrom(220), snap.Levels.ResistanceHint)
	assert.True(t, snap.Volatility.Proxy.Valid)
	assert.Contains(t, snap.Volatility.Note, "not implied volatility")
}

func TestAssemble_FlatSeries(t *testing.T) {
	snap := run(t, &model.Series{Symbol: "FLAT", Bars: flatBars(30, 10, 500)})

	require.True(t, snap.Volatility.Proxy.Valid)
	assert.Equal(t, 0.0, snap.Volatility.Proxy.Float64)
	assert.False(t, snap.Indicators.CMF.Valid)
	assert.False(t, snap.Indicators.RSI.Valid)
	assert.Equal(t, 0.0, snap.Indicators.OBV.Float64)
}

func TestAssemble_ShortSeriesMarshalsNulls(t *testing.T) {
	snap := run(t, &model.Series{Symbol: "NEW", Bars: barsFromCloses([]float64{10, 11, 12}, 5)})

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, `"rsi":null`)
	assert.Contains(t, body, `"cmf":null`)
	assert.Contains(t, body, `"support_hint":null`)
	assert.Contains(t, body, `"proxy":null`)
	assert.Contains(t, body, `"obv":10`)
	assert.False(t, strings.Contains(body, "NaN"))
}

func TestAssemble_Rounding(t *testing.T) {
	bars := barsFromCloses(rampCloses(30, 100, 0.5), 100)
	last := &bars[len(bars)-1]
	last.Close, last.Open, last.High, last.Low = 101.23456, 100.005, 102.999, 99.994
	snap := run(t, &model.Series{Symbol: "X", Bars: bars})

	assert.Equal(t, 101.23, snap.Price.Close)
	assert.Equal(t, 100.01, snap.Price.Open)
	assert.Equal(t, 103.0, snap.Price.High)
	assert.Equal(t, 99.99, snap.Price.Low)

	proxy := snap.Volatility.Proxy.Float64
	assert.Equal(t, proxy, math.Round(proxy*1e4)/1e4)
}

func TestAssemble_SanitizesNonFinite(t *testing.T) {
	series := &model.Series{Symbol: "X", Bars: barsFromCloses([]float64{1, 2}, 1)}
	e := &model.Enriched{
		Series:          series,
		RSI:             model.IndicatorSeries{{}, null.FloatFrom(math.NaN())},
		CMF:             model.IndicatorSeries{{}, null.FloatFrom(math.Inf(1))},
		VolatilityProxy: null.FloatFrom(math.NaN()),
	}
	snap, err := Assemble(e, DefaultParams())
	require.NoError(t, err)
	assert.False(t, snap.Indicators.RSI.Valid)
	assert.False(t, snap.Indicators.CMF.Valid)
	assert.False(t, snap.Volatility.Proxy.Valid)
	assert.False(t, snap.Indicators.OBV.Valid)
}

func TestEmptySeries(t *testing.T) {
	_, err := Compute(&model.Series{Symbol: "NONE"}, DefaultParams())
	assert.True(t, errors.Is(err, model.ErrEmptySeries))

	_, err = Compute(nil, DefaultParams())
	assert.True(t, errors.Is(err, model.ErrEmptySeries))

	_, err = Assemble(&model.Enriched{Series: &model.Series{}}, DefaultParams())
	assert.True(t, errors.Is(err, model.ErrEmptySeries))

	_, err = Assemble(nil, DefaultParams())
	assert.True(t, errors.Is(err, model.ErrEmptySeries))
}

func TestCompute_AlignedLengths(t *testing.T) {
	series := &model.Series{Symbol: "X", Bars: randomWalk(200, 21)}
	e, err := Compute(series, DefaultParams())
	require.NoError(t, err)
	for i, col := range e.Columns() {
		assert.Len(t, col, 200, model.IndicatorColumns[i])
	}
}

func TestCompute_RejectsBadParams(t *testing.T) {
	p := DefaultParams()
	p.MACDFast = 30
	_, err := Compute(&model.Series{Bars: randomWalk(10, 1)}, p)
	assert.Error(t, err)
}
