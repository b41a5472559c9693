package calculator

import (
	"math/rand"
	"time"

	"MarketSentinel/internal/model"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func barsFromCloses(closes []float64, volume int64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:   day0.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: volume,
		}
	}
	return bars
}

func rampCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return closes
}

func flatBars(n int, price float64, volume int64) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{Date: day0.AddDate(0, 0, i), Open: price, High: price, Low: price, Close: price, Volume: volume}
	}
	return bars
}

// randomWalk returns a deterministic noisy price path with realistic ranges.
func randomWalk(n int, seed int64) []model.Bar {
	rng := rand.New(rand.NewSource(seed))
	bars := make([]model.Bar, n)
	price := 100.0
	for i := range bars {
		open := price
		price *= 1 + (rng.Float64()-0.5)*0.04
		high := max(open, price) * (1 + rng.Float64()*0.01)
		low := min(open, price) * (1 - rng.Float64()*0.01)
		bars[i] = model.Bar{
			Date:   day0.AddDate(0, 0, i),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: int64(100000 + rng.Intn(50000)),
		}
	}
	return bars
}

func closesOf(bars []model.Bar) []float64 {
	s := model.Series{Bars: bars}
	return s.Closes()
}
