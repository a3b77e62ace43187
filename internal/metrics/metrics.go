// Package metrics exposes Prometheus collectors for the detection service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "langdetect"

// Cache lookup outcomes recorded in langdetect_cache_requests_total.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics groups the service collectors.
type Metrics struct {
	Detections    *prometheus.CounterVec
	Inference     prometheus.Histogram
	BatchSize     prometheus.Histogram
	CacheRequests *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which suits tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detections_total",
			Help:      "Detected texts by top-ranked language label.",
		}, []string{"lang"}),
		Inference: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_seconds",
			Help:      "Time spent in one model scoring call.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of texts per model scoring call.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512},
		}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Result cache lookups by outcome.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Detections, m.Inference, m.BatchSize, m.CacheRequests)
	}
	return m
}

// ObserveInference records one scoring call. Its signature matches
// engine.InferenceObserver.
func (m *Metrics) ObserveInference(batchSize int, elapsed time.Duration) {
	m.Inference.Observe(elapsed.Seconds())
	m.BatchSize.Observe(float64(batchSize))
}

// ObserveDetection counts one detected text.
func (m *Metrics) ObserveDetection(lang string) {
	m.Detections.WithLabelValues(lang).Inc()
}

// ObserveCache counts one cache lookup outcome.
func (m *Metrics) ObserveCache(result string) {
	m.CacheRequests.WithLabelValues(result).Inc()
}
