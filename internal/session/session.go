// Package session owns the shared application state: the rating store, the
// ledger and the collaborators that act on them. Every user action runs to
// completion under one lock.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tennis-edge/internal/feed"
	"github.com/yourusername/tennis-edge/internal/ledger"
	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/odds"
	"github.com/yourusername/tennis-edge/internal/predictor"
	"github.com/yourusername/tennis-edge/internal/rating"
	"github.com/yourusername/tennis-edge/internal/value"
)

// Options wires a Session. Predictor and Feed are optional.
type Options struct {
	Store           *rating.Store
	Snapshots       rating.SnapshotStore
	SnapshotBackend string
	Ledger          *ledger.Ledger
	Predictor       predictor.Predictor
	Feed            feed.Publisher
	UpdateOnSettle  bool
	Tau             float64
	Logger          *logrus.Logger
}

// MatchRequest is one match to evaluate
type MatchRequest struct {
	Player1 string  `json:"player1" validate:"required"`
	Player2 string  `json:"player2" validate:"required,nefield=Player1"`
	Surface string  `json:"surface" validate:"required,surface"`
	Odd1    float64 `json:"odd1" validate:"gt=1"`
	Odd2    float64 `json:"odd2" validate:"gt=1"`
}

// Evaluation is the full result of evaluating a match
type Evaluation struct {
	Player1    string                 `json:"player1"`
	Player2    string                 `json:"player2"`
	Surface    models.Surface         `json:"surface"`
	Strength1  rating.BlendedStrength `json:"strength1"`
	Strength2  rating.BlendedStrength `json:"strength2"`
	ModelProb1 float64                `json:"model_prob1"`
	ModelProb2 float64                `json:"model_prob2"`
	DevigProb1 float64                `json:"devig_prob1"`
	DevigProb2 float64                `json:"devig_prob2"`
	Overround  float64                `json:"overround"`
	Decision   value.Decision         `json:"decision"`
	Entry      *models.MatchEntry     `json:"entry,omitempty"`
}

// Settlement is the result of recording a match winner
type Settlement struct {
	Entry            *models.MatchEntry `json:"entry"`
	Profit           float64            `json:"profit"`
	CumulativeProfit float64            `json:"cumulative_profit"`
	RatingsUpdated   bool               `json:"ratings_updated"`
	SnapshotSaved    bool               `json:"snapshot_saved"`
}

// Session is the single shared application context
type Session struct {
	mu sync.Mutex

	id              uuid.UUID
	store           *rating.Store
	snapshots       rating.SnapshotStore
	snapshotBackend string
	ledger          *ledger.Ledger
	predictor       predictor.Predictor
	feed            feed.Publisher
	updateOnSettle  bool
	tau             float64

	logger   *logrus.Entry
	matchLog *logger.MatchLogger
	audit    *logger.AuditLogger
}

// New creates a session from opts
func New(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	store := opts.Store
	if store == nil {
		store = rating.NewStore()
	}
	snapshots := opts.Snapshots
	if snapshots == nil {
		snapshots = rating.NewMemorySnapshotStore()
	}
	led := opts.Ledger
	if led == nil {
		led = ledger.New(ledger.NewMemoryRepository())
	}
	tau := opts.Tau
	if tau <= 0 {
		tau = rating.DefaultTau
	}
	backend := opts.SnapshotBackend
	if backend == "" {
		backend = "memory"
	}

	id := uuid.New()
	return &Session{
		id:              id,
		store:           store,
		snapshots:       snapshots,
		snapshotBackend: backend,
		ledger:          led,
		predictor:       opts.Predictor,
		feed:            opts.Feed,
		updateOnSettle:  opts.UpdateOnSettle,
		tau:             tau,
		logger:          log.WithFields(logrus.Fields{"component": "session", "session_id": id.String()}),
		matchLog:        logger.NewMatchLogger(log),
		audit:           logger.NewAuditLogger(log),
	}
}

// ID identifies this session in logs
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Open loads persisted ratings and the ledger. A missing rating snapshot
// starts from an empty store.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.snapshots.Load(ctx)
	switch {
	case errors.Is(err, models.ErrPersistenceAbsent):
		s.audit.LogSnapshotLoaded(s.snapshotBackend, 0, true)
	case err != nil:
		return fmt.Errorf("loading ratings: %w", err)
	default:
		s.store.Restore(snapshot)
		s.audit.LogSnapshotLoaded(s.snapshotBackend, len(snapshot), false)
	}

	if err := s.ledger.Load(ctx); err != nil {
		return err
	}

	s.refreshGauges()
	s.logger.WithFields(logrus.Fields{
		"players": s.store.Len(),
		"entries": s.ledger.Len(),
	}).Info("Session opened")
	return nil
}

// Evaluate rates a match against the market and records it when a value
// side exists. The evaluation is returned either way.
func (s *Session) Evaluate(ctx context.Context, req MatchRequest) (*Evaluation, error) {
	player1 := strings.TrimSpace(req.Player1)
	player2 := strings.TrimSpace(req.Player2)
	if player1 == "" || player2 == "" {
		return nil, fmt.Errorf("%w: both player names are required", models.ErrInvalidInput)
	}
	if player1 == player2 {
		return nil, fmt.Errorf("%w: players must differ", models.ErrInvalidInput)
	}
	surface, err := models.ParseSurface(req.Surface)
	if err != nil {
		return nil, err
	}
	devig1, devig2, err := odds.Devig(req.Odd1, req.Odd2)
	if err != nil {
		return nil, err
	}
	overround, err := odds.Overround(req.Odd1, req.Odd2)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set1 := s.store.GetOrCreate(player1)
	set2 := s.store.GetOrCreate(player2)
	p1, p2, b1, b2 := rating.MatchProbabilities(set1, set2, surface)

	decision := value.Decide(value.Input{
		Player1:    player1,
		Player2:    player2,
		ModelProb1: p1,
		ModelProb2: p2,
		DevigProb1: devig1,
		DevigProb2: devig2,
		Odd1:       req.Odd1,
		Odd2:       req.Odd2,
	})

	eval := &Evaluation{
		Player1:    player1,
		Player2:    player2,
		Surface:    surface,
		Strength1:  b1,
		Strength2:  b2,
		ModelProb1: p1,
		ModelProb2: p2,
		DevigProb1: devig1,
		DevigProb2: devig2,
		Overround:  overround,
		Decision:   decision,
	}

	s.matchLog.LogEvaluation(player1, player2, string(surface), p1, p2, devig1, devig2)
	metrics.RecordEvaluation(string(surface))
	metrics.UpdateRatedPlayers(s.store.Len())

	if !decision.HasValue() {
		s.matchLog.LogNoValue(player1, player2)
		return eval, nil
	}

	s.matchLog.LogValueDecision(decision.Player, decision.Odds, decision.ModelProb, decision.Edge)
	entry, err := s.ledger.Record(ctx, ledger.EntryInput{
		Player1:    player1,
		Player2:    player2,
		Surface:    surface,
		Odd1:       req.Odd1,
		Odd2:       req.Odd2,
		ModelProb1: p1,
		ModelProb2: p2,
		Decision:   decision,
	})
	if err != nil {
		return nil, fmt.Errorf("recording value bet: %w", err)
	}
	eval.Entry = entry

	s.audit.LogEntryRecorded(entry.Index, entry.ID.String(), player1, player2, decision.Player, decision.Odds, entry.CreatedAt)
	metrics.RecordValueBet(decision.Side.String(), decision.Edge)
	s.refreshGauges()
	s.publish(feed.EventRecorded, entry)
	return eval, nil
}

// Settle records the winner of a ledger entry, optionally updates ratings,
// and persists the rating store.
func (s *Session) Settle(ctx context.Context, index int, winner string) (*Settlement, error) {
	winner = strings.TrimSpace(winner)
	if winner == "" {
		return nil, fmt.Errorf("%w: winner is required", models.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.ledger.Settle(ctx, index, winner)
	if err != nil {
		return nil, err
	}

	cumulative := s.ledger.CumulativeProfit().InexactFloat64()
	result := &Settlement{
		Entry:            entry,
		Profit:           entry.GetProfit(),
		CumulativeProfit: cumulative,
	}

	s.audit.LogEntrySettled(entry.Index, entry.ID.String(), winner, result.Profit)
	s.matchLog.LogSettlement(entry.Index, winner, result.Profit, cumulative)
	metrics.RecordSettlement(winner == *entry.ValueSide)

	if s.updateOnSettle {
		s.applyResult(entry, winner)
		result.RatingsUpdated = true
	}

	result.SnapshotSaved = s.saveSnapshot(ctx, "settle") == nil

	s.refreshGauges()
	s.publish(feed.EventSettled, entry)
	return result, nil
}

// applyResult runs a Glicko-2 update for both players on overall and surface ratings
func (s *Session) applyResult(entry *models.MatchEntry, winner string) {
	loser := entry.Player1
	if winner == entry.Player1 {
		loser = entry.Player2
	}

	w := s.store.GetOrCreate(winner)
	l := s.store.GetOrCreate(loser)

	newW, newL := rating.UpdateMatch(w.Overall, l.Overall, s.tau)
	wSurface, lSurface := rating.UpdateMatch(w.Surface(entry.Surface), l.Surface(entry.Surface), s.tau)

	s.matchLog.LogRatingUpdate(winner, "overall", w.Overall.Rating, newW.Rating, newW.Deviation)
	s.matchLog.LogRatingUpdate(loser, "overall", l.Overall.Rating, newL.Rating, newL.Deviation)
	s.matchLog.LogRatingUpdate(winner, string(entry.Surface), w.Surface(entry.Surface).Rating, wSurface.Rating, wSurface.Deviation)
	s.matchLog.LogRatingUpdate(loser, string(entry.Surface), l.Surface(entry.Surface).Rating, lSurface.Rating, lSurface.Deviation)

	w.Overall, l.Overall = newW, newL
	w.Surfaces[entry.Surface] = wSurface
	l.Surfaces[entry.Surface] = lSurface
	s.store.Put(winner, w)
	s.store.Put(loser, l)
}

// Predict asks the remote service for a head-to-head probability
func (s *Session) Predict(ctx context.Context, category, player1, player2 string) (*models.RemotePrediction, error) {
	cat, err := models.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if s.predictor == nil {
		return nil, fmt.Errorf("%w: prediction service not configured", models.ErrUpstream)
	}
	return s.predictor.Predict(ctx, cat, player1, player2)
}

// Rating returns the rating set of a known player
func (s *Session) Rating(name string) (models.RatingSet, error) {
	set, ok := s.store.Get(strings.TrimSpace(name))
	if !ok {
		return models.RatingSet{}, fmt.Errorf("player %q: %w", name, models.ErrNotFound)
	}
	return set, nil
}

// Players lists every rated player
func (s *Session) Players() []string {
	return s.store.Players()
}

// Entries returns the ledger in recording order
func (s *Session) Entries() []*models.MatchEntry {
	return s.ledger.Entries()
}

// Summary returns the ledger summary
func (s *Session) Summary() ledger.Summary {
	return s.ledger.Summary()
}

// SaveSnapshot persists the rating store
func (s *Session) SaveSnapshot(ctx context.Context, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveSnapshot(ctx, reason)
}

// Close persists ratings
func (s *Session) Close(ctx context.Context) error {
	if err := s.SaveSnapshot(ctx, "close"); err != nil {
		return err
	}
	s.logger.Info("Session closed")
	return nil
}

func (s *Session) saveSnapshot(ctx context.Context, reason string) error {
	snapshot := s.store.Snapshot()
	err := s.snapshots.Save(ctx, snapshot)
	metrics.RecordSnapshotSave(reason, err)
	if err != nil {
		s.logger.WithError(err).WithField("reason", reason).Error("Failed to save rating snapshot")
		return fmt.Errorf("saving ratings: %w", err)
	}
	s.audit.LogSnapshotSaved(s.snapshotBackend, len(snapshot), reason)
	return nil
}

func (s *Session) refreshGauges() {
	metrics.UpdateRatedPlayers(s.store.Len())
	metrics.UpdatePendingEntries(len(s.ledger.Pending()))
	metrics.UpdateCumulativeProfit(s.ledger.CumulativeProfit().InexactFloat64())
}

func (s *Session) publish(t feed.EventType, entry *models.MatchEntry) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(feed.Event{
		Type:             t,
		Entry:            entry,
		CumulativeProfit: s.ledger.CumulativeProfit().InexactFloat64(),
	})
}
