// Package metrics provides the Prometheus registry and recorders for the
// rating engine, ledger and prediction client.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tennis_edge"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evaluations_total",
		Help:      "Total number of match evaluations by surface",
	}, []string{"surface"})
	ValueBetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_bets_total",
		Help:      "Total number of value bets detected by side",
	}, []string{"side"})
	SettlementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlements_total",
		Help:      "Total number of settled ledger entries by result",
	}, []string{"result"})
	SnapshotSavesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rating_snapshot_saves_total",
		Help:      "Total number of rating snapshot writes by reason and status",
	}, []string{"reason", "status"})
)

// Gauge metrics
var (
	CumulativeProfit = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cumulative_profit_units",
		Help:      "Cumulative flat-stake profit in stake units",
	})
	RatedPlayers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rated_players",
		Help:      "Number of players in the rating store",
	})
	PendingEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pending_entries",
		Help:      "Number of ledger entries awaiting a result",
	})
)

// Histogram metrics
var (
	EvaluationEdge = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "value_edge",
		Help:      "Model probability minus de-vigged market probability for value bets",
		Buckets:   []float64{0.01, 0.02, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EvaluationsTotal)
		registry.MustRegister(ValueBetsTotal)
		registry.MustRegister(SettlementsTotal)
		registry.MustRegister(SnapshotSavesTotal)

		registry.MustRegister(CumulativeProfit)
		registry.MustRegister(RatedPlayers)
		registry.MustRegister(PendingEntries)

		registry.MustRegister(EvaluationEdge)

		registry.MustRegister(PredictorRequestsTotal)
		registry.MustRegister(PredictorErrorsTotal)
		registry.MustRegister(PredictorLatency)
		registry.MustRegister(PredictorCacheHitRatio)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEvaluation records a match evaluation on surface.
func RecordEvaluation(surface string) {
	EvaluationsTotal.WithLabelValues(surface).Inc()
}

// RecordValueBet records a detected value bet and its edge.
func RecordValueBet(side string, edge float64) {
	ValueBetsTotal.WithLabelValues(side).Inc()
	EvaluationEdge.Observe(edge)
}

// RecordSettlement records a settled entry as a win or a loss.
func RecordSettlement(won bool) {
	result := "loss"
	if won {
		result = "win"
	}
	SettlementsTotal.WithLabelValues(result).Inc()
}

// RecordSnapshotSave records a rating snapshot write.
func RecordSnapshotSave(reason string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SnapshotSavesTotal.WithLabelValues(reason, status).Inc()
}

// UpdateCumulativeProfit updates the cumulative profit gauge.
func UpdateCumulativeProfit(units float64) {
	CumulativeProfit.Set(units)
}

// UpdateRatedPlayers updates the rated players gauge.
func UpdateRatedPlayers(count int) {
	RatedPlayers.Set(float64(count))
}

// UpdatePendingEntries updates the pending entries gauge.
func UpdatePendingEntries(count int) {
	PendingEntries.Set(float64(count))
}
