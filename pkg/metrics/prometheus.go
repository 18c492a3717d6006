package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsTotal    *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	strength        *prometheus.GaugeVec
	lastPrice       *prometheus.GaugeVec
	cycleDuration   prometheus.Histogram
	cycleSignals    prometheus.Gauge
	cycleRejected   prometheus.Gauge
	fetchLatency    *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradepulse_signals_total",
				Help: "Total signals emitted per symbol and action",
			},
			[]string{"symbol", "action"},
		),
		rejectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradepulse_rejections_total",
				Help: "Total per-cycle instrument rejections by reason",
			},
			[]string{"symbol", "reason"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradepulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		strength: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradepulse_signal_strength",
				Help: "Latest confluence strength per symbol",
			},
			[]string{"symbol"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradepulse_last_price",
				Help: "Last evaluated close per symbol",
			},
			[]string{"symbol"},
		),
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradepulse_cycle_duration_seconds",
				Help:    "Duration of full scan cycles in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		cycleSignals: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradepulse_cycle_signals",
				Help: "Signals in the newest published cycle",
			},
		),
		cycleRejected: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradepulse_cycle_rejected",
				Help: "Rejections in the newest published cycle",
			},
		),
		fetchLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradepulse_fetch_duration_seconds",
				Help:    "Provider fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}
}

// RecordSignal records one emitted signal.
func (r *Recorder) RecordSignal(symbol, action string, strength int) {
	r.signalsTotal.WithLabelValues(symbol, action).Inc()
	r.strength.WithLabelValues(symbol).Set(float64(strength))
}

// RecordRejection records a per-cycle instrument rejection.
func (r *Recorder) RecordRejection(symbol, reason string) {
	r.rejectionsTotal.WithLabelValues(symbol, reason).Inc()
}

// RecordCycle records a completed cycle.
func (r *Recorder) RecordCycle(seconds float64, signals, rejected int) {
	r.cycleDuration.Observe(seconds)
	r.cycleSignals.Set(float64(signals))
	r.cycleRejected.Set(float64(rejected))
}

// RecordFetchLatency records provider fetch latency in seconds.
func (r *Recorder) RecordFetchLatency(provider string, seconds float64) {
	r.fetchLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordLastPrice records the last close for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
