// Package metrics exposes Prometheus instruments for analyses and marketplace calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

// Metrics provides observability for the analysis pipeline. A nil *Metrics is a no-op.
type Metrics struct {
	// Extractor run time by extractor name
	ExtractorLatency *prometheus.HistogramVec

	// Full analysis duration by mode
	AnalysisLatency *prometheus.HistogramVec

	// Completed analyses by mode and risk level
	AnalysisOutcome *prometheus.CounterVec

	// Last fake score per product
	FakeScore *prometheus.GaugeVec

	// Reviews collected per analysis
	ReviewsCollected prometheus.Histogram

	// Marketplace breaker state (0=closed, 1=half-open, 2=open)
	BreakerState *prometheus.GaugeVec

	// Alerts sent by the watch job
	AlertsSent prometheus.Counter
}

// New registers every instrument on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ExtractorLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "review_sentinel_extractor_duration_seconds",
			Help:    "Duration of a single feature extractor run",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"extractor"}),

		AnalysisLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "review_sentinel_analysis_duration_seconds",
			Help:    "Duration of a product analysis including marketplace retrieval",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"mode"}),

		AnalysisOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "review_sentinel_analyses_total",
			Help: "Completed analyses by mode and risk level",
		}, []string{"mode", "risk"}),

		FakeScore: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "review_sentinel_fake_score",
			Help: "Most recent fake score per product",
		}, []string{"product"}),

		ReviewsCollected: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "review_sentinel_reviews_collected",
			Help:    "Number of reviews collected per analysis",
			Buckets: []float64{0, 10, 20, 40, 60, 80, 100},
		}),

		BreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "review_sentinel_circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		}, []string{"name"}),

		AlertsSent: f.NewCounter(prometheus.CounterOpts{
			Name: "review_sentinel_alerts_sent_total",
			Help: "Watchlist alerts delivered",
		}),
	}
}

// ObserveExtractor records the duration of one extractor.
func (m *Metrics) ObserveExtractor(name string, d time.Duration) {
	if m != nil {
		m.ExtractorLatency.WithLabelValues(name).Observe(d.Seconds())
	}
}

// ObserveAnalysis records a finished analysis.
func (m *Metrics) ObserveAnalysis(mode, risk string, reviews int, d time.Duration) {
	if m != nil {
		m.AnalysisLatency.WithLabelValues(mode).Observe(d.Seconds())
		m.AnalysisOutcome.WithLabelValues(mode, risk).Inc()
		m.ReviewsCollected.Observe(float64(reviews))
	}
}

// SetFakeScore records the latest score of a product.
func (m *Metrics) SetFakeScore(product string, score int) {
	if m != nil {
		m.FakeScore.WithLabelValues(product).Set(float64(score))
	}
}

// SetBreakerState mirrors a circuit breaker transition.
func (m *Metrics) SetBreakerState(name string, state gobreaker.State) {
	if m == nil {
		return
	}
	v := -1.0
	switch state {
	case gobreaker.StateClosed:
		v = 0
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	m.BreakerState.WithLabelValues(name).Set(v)
}

// IncAlerts counts a delivered alert.
func (m *Metrics) IncAlerts() {
	if m != nil {
		m.AlertsSent.Inc()
	}
}
