package metrics

import (
	"net/http"
	"time"

	"github.com/guregu/null/v6"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"MarketSentinel/internal/model"
)

// Metrics holds the Prometheus metrics of the snapshot pipeline.
type Metrics struct {
	Runs        *prometheus.CounterVec // labels: result
	RunDuration prometheus.Histogram
	Bars        *prometheus.GaugeVec // labels: instrument

	// Latest snapshot values; a label is removed while its value is undefined.
	Close      *prometheus.GaugeVec
	RSI        *prometheus.GaugeVec
	CMF        *prometheus.GaugeVec
	MACDHist   *prometheus.GaugeVec
	Volatility *prometheus.GaugeVec

	registry *prometheus.Registry
}

// New creates the metrics on a private registry.
func New() *Metrics {
	instrument := []string{"instrument"}
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_runs_total",
			Help: "Pipeline runs by result.",
		}, []string{"result"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_run_duration_seconds",
			Help:    "Wall time of one fetch, compute and record cycle.",
			Buckets: prometheus.DefBuckets,
		}),
		Bars: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_series_bars",
			Help: "Bars in the last fetched series.",
		}, instrument),
		Close: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_close_price",
			Help: "Close of the latest bar.",
		}, instrument),
		RSI: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_rsi",
			Help: "Latest RSI.",
		}, instrument),
		CMF: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_cmf",
			Help: "Latest Chaikin Money Flow.",
		}, instrument),
		MACDHist: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_macd_hist",
			Help: "Latest MACD histogram.",
		}, instrument),
		Volatility: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_hv_proxy",
			Help: "Annualized historical volatility proxy.",
		}, instrument),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.Runs, m.RunDuration, m.Bars, m.Close, m.RSI, m.CMF, m.MACDHist, m.Volatility)
	return m
}

// ObserveRun counts a finished run.
func (m *Metrics) ObserveRun(result string, elapsed time.Duration) {
	m.Runs.WithLabelValues(result).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
}

// ObserveSnapshot publishes the snapshot values.
func (m *Metrics) ObserveSnapshot(s *model.Snapshot, bars int) {
	m.Bars.WithLabelValues(s.Instrument).Set(float64(bars))
	m.Close.WithLabelValues(s.Instrument).Set(s.Price.Close)
	setOrDelete(m.RSI, s.Instrument, s.Indicators.RSI)
	setOrDelete(m.CMF, s.Instrument, s.Indicators.CMF)
	setOrDelete(m.MACDHist, s.Instrument, s.Indicators.MACD.Hist)
	setOrDelete(m.Volatility, s.Instrument, s.Volatility.Proxy)
}

func setOrDelete(g *prometheus.GaugeVec, instrument string, v null.Float) {
	if !v.Valid {
		g.DeleteLabelValues(instrument)
		return
	}
	g.WithLabelValues(instrument).Set(v.Float64)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
