package calculator

import "MarketSentinel/internal/model"

// CalculateMACD returns the MACD line (fast EMA minus slow EMA), its signal
// EMA and the histogram (line minus signal). All three are defined from the
// first observation on.
func CalculateMACD(closes []float64, fast, slow, signal int) (line, signalLine, hist model.IndicatorSeries) {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	raw := make([]float64, len(closes))
	for i := range closes {
		raw[i] = emaFast[i] - emaSlow[i]
	}
	sig := EMA(raw, signal)

	h := make([]float64, len(closes))
	for i := range raw {
		h[i] = raw[i] - sig[i]
	}
	return model.FromFloats(raw), model.FromFloats(sig), model.FromFloats(h)
}
