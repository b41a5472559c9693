package collector

import (
	"context"
	"sort"

	"MarketSentinel/internal/model"
)

// Fetcher supplies the daily price history of one instrument.
//
// Implementations return bars covering at least lookbackDays calendar days up
// to today, ascending by date with no duplicate dates.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, lookbackDays int) ([]model.Bar, error)
	Name() string
}

// normalizeBars sorts bars by date and keeps the last bar seen for each date.
func normalizeBars(bars []model.Bar) []model.Bar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
