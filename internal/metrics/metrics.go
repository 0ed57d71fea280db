// Package metrics provides Prometheus metrics for feed ingestion.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedsync"

// Recorder holds the ingestion collectors registered on one registry.
type Recorder struct {
	fetchTotal      *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	reconciledTotal *prometheus.CounterVec
}

// NewRecorder registers the collectors on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		fetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "Total number of feed fetches by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of feed fetches in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		reconciledTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconciled_articles_total",
				Help:      "Total number of reconciled articles by operation",
			},
			[]string{"operation"},
		),
	}
}

// ObserveFetch records a fetch outcome.
func (r *Recorder) ObserveFetch(outcome string, elapsed time.Duration) {
	r.fetchTotal.WithLabelValues(outcome).Inc()
	r.fetchDuration.Observe(elapsed.Seconds())
}

// ObserveReconcile records the result of one reconciled batch.
func (r *Recorder) ObserveReconcile(inserted, updated int) {
	r.reconciledTotal.WithLabelValues("inserted").Add(float64(inserted))
	r.reconciledTotal.WithLabelValues("updated").Add(float64(updated))
}
