package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tennis-edge/internal/logger"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthIncludesStats(t *testing.T) {
	s := NewServer(Config{
		ServiceName: "tennis-edge",
		Version:     "1.0.0",
		Logger:      logger.NewNopLogger(),
		Stats:       func() map[string]int { return map[string]int{"players": 4, "entries": 2} },
	})

	rec := get(t, s.Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "tennis-edge", resp.Service)
	assert.Equal(t, 4, resp.Stats["players"])
}

func TestLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "tennis-edge"})
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/live").Code)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		pingErr    error
		wantStatus int
		wantDB     string
	}{
		{name: "ready and healthy", ready: true, wantStatus: http.StatusOK, wantDB: "ok"},
		{name: "not marked ready", ready: false, wantStatus: http.StatusServiceUnavailable, wantDB: "ok"},
		{name: "database down", ready: true, pingErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantDB: "error: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{
				ServiceName: "tennis-edge",
				Checks:      map[string]Check{"database": PingCheck(fakePinger{err: tt.pingErr})},
			})
			s.SetReady(tt.ready)

			rec := get(t, s.Handler(), "/ready")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ReadyResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantDB, resp.Checks["database"])
		})
	}
}
