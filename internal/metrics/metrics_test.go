package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordEvaluation(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("clay"))

	RecordEvaluation("clay")

	assert.Equal(t, before+1, testutil.ToFloat64(EvaluationsTotal.WithLabelValues("clay")))
}

func TestRecordValueBet(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(ValueBetsTotal.WithLabelValues("player1"))

	assert.NotPanics(t, func() {
		RecordValueBet("player1", 0.07)
	})
	assert.Equal(t, before+1, testutil.ToFloat64(ValueBetsTotal.WithLabelValues("player1")))
}

func TestRecordSettlement(t *testing.T) {
	InitRegistry()
	tests := []struct {
		name  string
		won   bool
		label string
	}{
		{name: "win", won: true, label: "win"},
		{name: "loss", won: false, label: "loss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(SettlementsTotal.WithLabelValues(tt.label))
			RecordSettlement(tt.won)
			assert.Equal(t, before+1, testutil.ToFloat64(SettlementsTotal.WithLabelValues(tt.label)))
		})
	}
}

func TestRecordSnapshotSave(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(SnapshotSavesTotal.WithLabelValues("settle", "error"))

	RecordSnapshotSave("settle", errors.New("disk full"))

	assert.Equal(t, before+1, testutil.ToFloat64(SnapshotSavesTotal.WithLabelValues("settle", "error")))
}

func TestGauges(t *testing.T) {
	InitRegistry()

	UpdateCumulativeProfit(-1.5)
	UpdateRatedPlayers(12)
	UpdatePendingEntries(3)
	UpdatePredictorCacheHitRatio(0.25)

	assert.Equal(t, -1.5, testutil.ToFloat64(CumulativeProfit))
	assert.Equal(t, 12.0, testutil.ToFloat64(RatedPlayers))
	assert.Equal(t, 3.0, testutil.ToFloat64(PendingEntries))
	assert.Equal(t, 0.25, testutil.ToFloat64(PredictorCacheHitRatio))
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(PredictorRequestsTotal.WithLabelValues("ATP", "false"))

	RecordPrediction("ATP", false, 0.12)
	RecordPredictorError("ATP", "network")

	assert.Equal(t, before+1, testutil.ToFloat64(PredictorRequestsTotal.WithLabelValues("ATP", "false")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(PredictorErrorsTotal.WithLabelValues("ATP", "network")), 1.0)
}

func TestHandler(t *testing.T) {
	InitRegistry()
	RecordEvaluation("hard")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tennis_edge_evaluations_total"))
}
