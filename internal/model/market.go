package model

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrEmptySeries is returned when a source yields no bars. It aborts the run.
	ErrEmptySeries = errors.New("empty price series")
	// ErrInvalidSeries is returned for unordered, duplicated or non-positive bars.
	ErrInvalidSeries = errors.New("invalid price series")
)

// Bar is a single daily OHLCV candle. Date is a calendar date at UTC midnight.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Series is an ordered daily price history for one instrument.
type Series struct {
	Symbol string
	Bars   []Bar
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Bars) }

// Last returns the most recent bar. It panics on an empty series.
func (s *Series) Last() Bar { return s.Bars[len(s.Bars)-1] }

// Closes extracts the close prices in order.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Tail returns a view of the last n bars (all bars if n exceeds the length).
func (s *Series) Tail(n int) []Bar {
	if n >= len(s.Bars) {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}

// Validate checks the series invariants: non-empty, strictly ascending dates,
// positive prices and non-negative volume.
func (s *Series) Validate() error {
	if len(s.Bars) == 0 {
		return ErrEmptySeries
	}
	for i, b := range s.Bars {
		for _, p := range []float64{b.Open, b.High, b.Low, b.Close} {
			if !(p > 0) || math.IsInf(p, 0) {
				return errors.Wrapf(ErrInvalidSeries, "bar %s: price %v out of range", b.Date.Format(DateLayout), p)
			}
		}
		if b.High < b.Low {
			return errors.Wrapf(ErrInvalidSeries, "bar %s: high below low", b.Date.Format(DateLayout))
		}
		if b.Volume < 0 {
			return errors.Wrapf(ErrInvalidSeries, "bar %s: negative volume", b.Date.Format(DateLayout))
		}
		if i > 0 && !b.Date.After(s.Bars[i-1].Date) {
			return errors.Wrapf(ErrInvalidSeries, "bar %s: not after %s",
				b.Date.Format(DateLayout), s.Bars[i-1].Date.Format(DateLayout))
		}
	}
	return nil
}

// DateLayout is the calendar-date format used in every export.
const DateLayout = "2006-01-02"

// ToDate truncates t to its calendar date at UTC midnight.
func ToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
