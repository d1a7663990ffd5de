package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tennis-edge/internal/feed"
	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/session"
)

type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, category models.Category, player1, player2 string) (*models.RemotePrediction, error) {
	args := m.Called(ctx, category, player1, player2)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RemotePrediction), args.Error(1)
}

type testEnv struct {
	handler   http.Handler
	predictor *MockPredictor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewNopLogger()
	predictor := &MockPredictor{}
	sess := session.New(session.Options{Predictor: predictor, Logger: log})
	require.NoError(t, sess.Open(context.Background()))

	srv := NewServer(sess, Config{
		Logger:  log,
		Metrics: metrics.Handler(),
		Feed:    feed.NewHub(log),
	})
	return &testEnv{handler: srv.Routes(), predictor: predictor}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestEvaluateRecordsValueBet(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/matches",
		`{"player1":"X","player2":"Y","surface":"Hard","odd1":1.5,"odd2":2.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var eval map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&eval))
	assert.Equal(t, 0.5, eval["model_prob1"])
	decision := eval["decision"].(map[string]interface{})
	assert.Equal(t, "player2", decision["side"])
	assert.Equal(t, "Y", decision["player"])

	rec = env.do(t, http.MethodGet, "/api/v1/ledger", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var led ledgerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&led))
	require.Len(t, led.Entries, 1)
	assert.Equal(t, models.MatchStatusPending, led.Entries[0].Status)
	assert.Equal(t, 0.0, led.CumulativeProfit)
}

func TestEvaluateNoValueReturnsOK(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/matches",
		`{"player1":"X","player2":"Y","surface":"clay","odd1":2.0,"odd2":2.0}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/ledger", "")
	var led ledgerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&led))
	assert.Empty(t, led.Entries)
}

func TestEvaluateValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "same players", body: `{"player1":"X","player2":"X","surface":"hard","odd1":1.5,"odd2":2.5}`, wantMsg: "players must differ"},
		{name: "bad surface", body: `{"player1":"X","player2":"Y","surface":"carpet","odd1":1.5,"odd2":2.5}`, wantMsg: "surface must be one of"},
		{name: "odds too low", body: `{"player1":"X","player2":"Y","surface":"hard","odd1":1.0,"odd2":2.5}`, wantMsg: "odd1 must be greater than 1"},
		{name: "missing player", body: `{"player2":"Y","surface":"hard","odd1":1.5,"odd2":2.5}`, wantMsg: "player1 is required"},
		{name: "malformed json", body: `{"player1":`, wantMsg: "malformed JSON"},
		{name: "unknown field", body: `{"player1":"X","player2":"Y","surface":"hard","odd1":1.5,"odd2":2.5,"stake":10}`, wantMsg: "malformed JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(t, http.MethodPost, "/api/v1/matches", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.wantMsg)
		})
	}
}

func TestSettleFlow(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/matches",
		`{"player1":"X","player2":"Y","surface":"hard","odd1":1.5,"odd2":2.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/ledger/0/settle", `{"winner":"Y"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var settlement session.Settlement
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&settlement))
	assert.InDelta(t, 1.5, settlement.Profit, 1e-9)
	assert.InDelta(t, 1.5, settlement.CumulativeProfit, 1e-9)

	rec = env.do(t, http.MethodPost, "/api/v1/ledger/0/settle", `{"winner":"X"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/ledger/9/settle", `{"winner":"X"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/ledger/abc/settle", `{"winner":"X"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/ledger/0/settle", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/players/Nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env.do(t, http.MethodPost, "/api/v1/matches", `{"player1":"X","player2":"Y","surface":"hard","odd1":2,"odd2":2}`)

	rec = env.do(t, http.MethodGet, "/api/v1/players/X", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var player playerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&player))
	assert.Equal(t, "X", player.Name)
	assert.Equal(t, models.DefaultRating, player.Ratings.Overall.Rating)
	assert.Len(t, player.Ratings.Surfaces, 3)

	rec = env.do(t, http.MethodGet, "/api/v1/players", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"players":["X","Y"]}`, rec.Body.String())
}

func TestPredict(t *testing.T) {
	env := newTestEnv(t)
	env.predictor.On("Predict", mock.Anything, models.CategoryATP, "A", "B").
		Return(&models.RemotePrediction{Category: models.CategoryATP, Player1: "A", Player2: "B", Player1WinProbability: 0.66}, nil)
	env.predictor.On("Predict", mock.Anything, models.CategoryWTA, "C", "D").
		Return(nil, errors.Join(models.ErrUpstream, errors.New("status 500")))

	rec := env.do(t, http.MethodPost, "/api/v1/predict/atp", `{"player1":"A","player2":"B"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var pred models.RemotePrediction
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&pred))
	assert.Equal(t, 0.66, pred.Player1WinProbability)

	rec = env.do(t, http.MethodPost, "/api/v1/predict/WTA", `{"player1":"C","player2":"D"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/predict/ITF", `{"player1":"A","player2":"B"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/predict/ATP", `{"player1":"A","player2":"A"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoster(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/roster?filename=players.txt",
		bytes.NewBufferString("Jannik Sinner 1\nCarlos Alcaraz 2\n"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"filename":"players.txt","players":["Jannik Sinner","Carlos Alcaraz"]}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/roster?filename=players.pdf", "x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/roster", "x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: models.ErrInvalidOdds, want: http.StatusBadRequest},
		{err: models.ErrParse, want: http.StatusBadRequest},
		{err: models.ErrNotFound, want: http.StatusNotFound},
		{err: models.ErrAlreadySettled, want: http.StatusConflict},
		{err: models.ErrUpstream, want: http.StatusBadGateway},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
