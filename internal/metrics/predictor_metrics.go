package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// PredictorRequestsTotal tracks remote prediction requests
	PredictorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictor_requests_total",
			Help:      "Total number of remote prediction requests",
		},
		[]string{"category", "cache_hit"},
	)

	// PredictorErrorsTotal tracks remote prediction failures
	PredictorErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictor_errors_total",
			Help:      "Total number of remote prediction errors",
		},
		[]string{"category", "error_type"}, // network, http_status, decode
	)

	// PredictorLatency tracks remote prediction latency
	PredictorLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predictor_latency_seconds",
			Help:      "Remote prediction latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	// PredictorCacheHitRatio tracks the prediction cache hit ratio
	PredictorCacheHitRatio = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "predictor_cache_hit_ratio",
			Help:      "Remote prediction cache hit ratio",
		},
	)
)

// RecordPrediction records a served prediction.
func RecordPrediction(category string, cacheHit bool, latencySeconds float64) {
	hit := "false"
	if cacheHit {
		hit = "true"
	}
	PredictorRequestsTotal.WithLabelValues(category, hit).Inc()
	if !cacheHit {
		PredictorLatency.WithLabelValues(category).Observe(latencySeconds)
	}
}

// RecordPredictorError records a failed prediction call.
func RecordPredictorError(category, errorType string) {
	PredictorErrorsTotal.WithLabelValues(category, errorType).Inc()
}

// UpdatePredictorCacheHitRatio updates the cache hit ratio gauge.
func UpdatePredictorCacheHitRatio(ratio float64) {
	PredictorCacheHitRatio.Set(ratio)
}
