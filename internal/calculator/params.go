package calculator

import (
	"fmt"
)

// StdDevConvention selects the estimator used for every rolling standard deviation.
type StdDevConvention string

const (
	// Sample divides by n-1 (ddof=1).
	Sample StdDevConvention = "sample"
	// Population divides by n (ddof=0).
	Population StdDevConvention = "population"
)

// Params holds the window sizes and constants of one pipeline run.
type Params struct {
	BollingerWindow int
	BollingerMult   float64
	RSIPeriod       int
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
	CMFPeriod       int

	// Levels use the trailing LevelWindow bars and a LevelRolling min/max.
	LevelWindow  int
	LevelRolling int

	VolatilityWindow  int
	MinReturns        int
	AnnualizationDays float64

	StdDev       StdDevConvention
	TrailingRows int
}

// DefaultParams returns the classic textbook parameters.
func DefaultParams() Params {
	return Params{
		BollingerWindow:   20,
		BollingerMult:     2,
		RSIPeriod:         14,
		MACDFast:          12,
		MACDSlow:          26,
		MACDSignal:        9,
		CMFPeriod:         20,
		LevelWindow:       40,
		LevelRolling:      5,
		VolatilityWindow:  20,
		MinReturns:        21,
		AnnualizationDays: 252,
		StdDev:            Sample,
		TrailingRows:      120,
	}
}

// Validate rejects parameter sets no indicator can be computed with.
func (p Params) Validate() error {
	windows := []struct {
		name string
		v    int
	}{
		{"bollinger window", p.BollingerWindow},
		{"rsi period", p.RSIPeriod},
		{"macd fast", p.MACDFast},
		{"macd slow", p.MACDSlow},
		{"macd signal", p.MACDSignal},
		{"cmf period", p.CMFPeriod},
		{"level window", p.LevelWindow},
		{"level rolling", p.LevelRolling},
		{"volatility window", p.VolatilityWindow},
		{"trailing rows", p.TrailingRows},
	}
	for _, w := range windows {
		if w.v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", w.name, w.v)
		}
	}
	if p.MACDFast >= p.MACDSlow {
		return fmt.Errorf("macd fast (%d) must be shorter than slow (%d)", p.MACDFast, p.MACDSlow)
	}
	if p.LevelRolling > p.LevelWindow {
		return fmt.Errorf("level rolling (%d) exceeds level window (%d)", p.LevelRolling, p.LevelWindow)
	}
	if p.MinReturns < p.VolatilityWindow {
		return fmt.Errorf("min returns (%d) below volatility window (%d)", p.MinReturns, p.VolatilityWindow)
	}
	if p.BollingerMult < 0 {
		return fmt.Errorf("bollinger multiplier must be non-negative, got %g", p.BollingerMult)
	}
	if p.AnnualizationDays <= 0 {
		return fmt.Errorf("annualization days must be positive, got %g", p.AnnualizationDays)
	}
	switch p.StdDev {
	case Sample, Population:
	default:
		return fmt.Errorf("unknown std dev convention %q", p.StdDev)
	}
	return nil
}
