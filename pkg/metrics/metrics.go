package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Authorization metrics
	AuthzDecisions *prometheus.CounterVec

	// Record store metrics
	RecordOperations *prometheus.CounterVec

	// Doctor aggregation metrics
	AggregationLatency   prometheus.Histogram
	AggregationCacheHits prometheus.Counter

	// Alert metrics
	AlertsCreated   *prometheus.CounterVec
	AlertsPublished prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		AuthzDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "authz_decisions_total",
			Help:      "Total number of authorization decisions",
		}, []string{"op", "outcome"}),

		RecordOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "record_operations_total",
			Help:      "Total number of patient record operations",
		}, []string{"kind", "operation"}),

		AggregationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "doctor_aggregation_duration_seconds",
			Help:      "Time spent aggregating alerts across a doctor's patients",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		AggregationCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "doctor_aggregation_cache_hits_total",
			Help:      "Total number of alert aggregation reads served from cache",
		}),

		AlertsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "alerts_created_total",
			Help:      "Total number of alerts recorded",
		}, []string{"type"}),
		AlertsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "alerts_published_total",
			Help:      "Total number of alerts published to the message broker",
		}),
	}
}
