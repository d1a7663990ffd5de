// Package api exposes the session over a JSON HTTP API with a websocket
// ledger feed and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tennis-edge/internal/ledger"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/roster"
	"github.com/yourusername/tennis-edge/internal/session"
	"github.com/yourusername/tennis-edge/internal/tracing"
)

const maxRosterBytes = 1 << 20

// Service is the session surface the API drives
type Service interface {
	Evaluate(ctx context.Context, req session.MatchRequest) (*session.Evaluation, error)
	Settle(ctx context.Context, index int, winner string) (*session.Settlement, error)
	Predict(ctx context.Context, category, player1, player2 string) (*models.RemotePrediction, error)
	Rating(name string) (models.RatingSet, error)
	Players() []string
	Entries() []*models.MatchEntry
	Summary() ledger.Summary
}

// Config holds HTTP server settings
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MetricsPath  string
	Metrics      http.Handler
	Feed         http.Handler
	Tracing      tracing.Config
	Logger       *logrus.Logger
}

// Server serves the API
type Server struct {
	service  Service
	cfg      Config
	validate *validator.Validate
	logger   *logrus.Entry
	server   *http.Server
}

type predictRequest struct {
	Player1 string `json:"player1" validate:"required"`
	Player2 string `json:"player2" validate:"required,nefield=Player1"`
}

type settleRequest struct {
	Winner string `json:"winner" validate:"required"`
}

type ledgerResponse struct {
	Entries          []*models.MatchEntry `json:"entries"`
	CumulativeProfit float64              `json:"cumulative_profit"`
	Summary          ledger.Summary       `json:"summary"`
}

type playerResponse struct {
	Name    string           `json:"name"`
	Ratings models.RatingSet `json:"ratings"`
}

type rosterResponse struct {
	Filename string   `json:"filename"`
	Players  []string `json:"players"`
}

// NewServer creates an API server over service
func NewServer(service Service, cfg Config) *Server {
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	return &Server{
		service:  service,
		cfg:      cfg,
		validate: newValidator(),
		logger:   cfg.Logger.WithField("component", "api"),
	}
}

// Routes returns the full handler tree
func (s *Server) Routes() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/v1/predict/{category}", s.handlePredict)
	api.HandleFunc("POST /api/v1/matches", s.handleEvaluate)
	api.HandleFunc("GET /api/v1/ledger", s.handleLedger)
	api.HandleFunc("POST /api/v1/ledger/{index}/settle", s.handleSettle)
	api.HandleFunc("GET /api/v1/players", s.handlePlayers)
	api.HandleFunc("GET /api/v1/players/{name}", s.handlePlayer)
	api.HandleFunc("POST /api/v1/roster", s.handleRoster)

	root := http.NewServeMux()
	root.Handle("/api/", tracing.Middleware(s.cfg.Tracing, s.logRequests(api)))
	if s.cfg.Metrics != nil {
		root.Handle("GET "+s.cfg.MetricsPath, s.cfg.Metrics)
	}
	if s.cfg.Feed != nil {
		root.Handle("GET /ws/ledger", s.cfg.Feed)
	}
	return root
}

// Start serves in the background until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("API server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("API server shutting down")
	return s.server.Shutdown(ctx)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	prediction, err := s.service.Predict(r.Context(), r.PathValue("category"), req.Player1, req.Player2)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req session.MatchRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	eval, err := s.service.Evaluate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tracing.AddAnnotation(r.Context(), "surface", string(eval.Surface))
	tracing.AddAnnotation(r.Context(), "value_side", eval.Decision.Side.String())

	status := http.StatusOK
	if eval.Entry != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, eval)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	summary := s.service.Summary()
	entries := s.service.Entries()
	if entries == nil {
		entries = []*models.MatchEntry{}
	}
	writeJSON(w, http.StatusOK, ledgerResponse{
		Entries:          entries,
		CumulativeProfit: summary.CumulativeProfit,
		Summary:          summary,
	})
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		s.writeError(w, r, fmt.Errorf("%w: ledger index must be a non-negative integer", models.ErrInvalidInput))
		return
	}

	var req settleRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	settlement, err := s.service.Settle(r.Context(), index, req.Winner)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players := s.service.Players()
	if players == nil {
		players = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"players": players})
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	set, err := s.service.Rating(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playerResponse{Name: name, Ratings: set})
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		s.writeError(w, r, fmt.Errorf("%w: filename query parameter is required", models.ErrInvalidInput))
		return
	}

	players, err := roster.Parse(filename, http.MaxBytesReader(w, r.Body, maxRosterBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rosterResponse{Filename: filename, Players: players})
}

// decode reads a JSON body into dst and validates it
func (s *Server) decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", models.ErrInvalidInput, err)
	}
	return validateRequest(s.validate, dst)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Request served")
	})
}
