package collector

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"MarketSentinel/internal/calculator"
	"MarketSentinel/internal/model"
)

var log = logrus.WithField("component", "collector")

// Result is the output of one pipeline run.
type Result struct {
	Snapshot *model.Snapshot
	Enriched *model.Enriched
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher      Fetcher
	Symbol       string
	LookbackDays int
	Params       calculator.Params
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, lookbackDays int, params calculator.Params) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, LookbackDays: lookbackDays, Params: params}
}

// Collect fetches the price history, validates it and computes the snapshot.
// An empty history aborts with model.ErrEmptySeries before any computation.
func (c *Collector) Collect(ctx context.Context) (*Result, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, c.Symbol, c.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	series := &model.Series{Symbol: c.Symbol, Bars: bars}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%s via %s: %w", c.Symbol, c.Fetcher.Name(), err)
	}
	log.WithFields(logrus.Fields{
		"symbol": c.Symbol,
		"source": c.Fetcher.Name(),
		"bars":   series.Len(),
		"from":   series.Bars[0].Date.Format(model.DateLayout),
		"to":     series.Last().Date.Format(model.DateLayout),
	}).Info("price series loaded")

	enriched, err := calculator.Compute(series, c.Params)
	if err != nil {
		return nil, fmt.Errorf("compute indicators: %w", err)
	}
	snap, err := calculator.Assemble(enriched, c.Params)
	if err != nil {
		return nil, fmt.Errorf("assemble snapshot: %w", err)
	}

	if series.Len() < c.Params.MACDSlow {
		log.Warnf("only %d bars for %s, slow indicators are undefined or unreliable", series.Len(), c.Symbol)
	}
	return &Result{Snapshot: snap, Enriched: enriched}, nil
}
