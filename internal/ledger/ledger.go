// Package ledger records value bets and settles them at a flat one-unit stake.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/value"
)

// EntryInput describes an evaluated match with a detected value side
type EntryInput struct {
	Player1    string
	Player2    string
	Surface    models.Surface
	Odd1       float64
	Odd2       float64
	ModelProb1 float64
	ModelProb2 float64
	Decision   value.Decision
}

// Summary aggregates ledger performance
type Summary struct {
	Entries          int     `json:"entries"`
	Settled          int     `json:"settled"`
	Pending          int     `json:"pending"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	CumulativeProfit float64 `json:"cumulative_profit"`
	ROI              float64 `json:"roi"`
}

// Ledger is the ordered record of value bets and their outcomes
type Ledger struct {
	mu         sync.RWMutex
	repo       Repository
	entries    []*models.MatchEntry
	cumulative decimal.Decimal
	now        func() time.Time
}

// New creates an empty ledger backed by repo
func New(repo Repository) *Ledger {
	return &Ledger{
		repo:       repo,
		cumulative: decimal.Zero,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Load replaces the in-memory state with the repository contents
func (l *Ledger) Load(ctx context.Context) error {
	entries, err := l.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = entries
	l.cumulative = sumProfit(entries)
	return nil
}

// Record appends a pending entry for a match with a value side
func (l *Ledger) Record(ctx context.Context, in EntryInput) (*models.MatchEntry, error) {
	if !in.Decision.HasValue() {
		return nil, fmt.Errorf("%w: only matches with a value side are recorded", models.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	side := in.Decision.Player
	odd := in.Decision.Odds
	prob := in.Decision.ModelProb
	entry := &models.MatchEntry{
		Index:      l.nextIndex(),
		ID:         uuid.New(),
		Player1:    in.Player1,
		Player2:    in.Player2,
		Surface:    in.Surface,
		Odd1:       in.Odd1,
		Odd2:       in.Odd2,
		ModelProb1: in.ModelProb1,
		ModelProb2: in.ModelProb2,
		ValueSide:  &side,
		ValueOdd:   &odd,
		ValueProb:  &prob,
		Status:     models.MatchStatusPending,
		CreatedAt:  l.now(),
	}

	if err := l.repo.Insert(ctx, entry); err != nil {
		return nil, err
	}
	l.entries = append(l.entries, entry)
	return entry.Clone(), nil
}

// Settle records the winner of entry index and returns the realised profit
func (l *Ledger) Settle(ctx context.Context, index int, winner string) (*models.MatchEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, err := l.position(index)
	if err != nil {
		return nil, err
	}
	current := l.entries[pos]
	if current.IsSettled() {
		return nil, fmt.Errorf("entry %d: %w", index, models.ErrAlreadySettled)
	}
	if !current.HasPlayer(winner) {
		return nil, fmt.Errorf("%w: winner %q is not a player of entry %d", models.ErrInvalidInput, winner, index)
	}

	profit := StakeProfit(*current.ValueOdd, winner == *current.ValueSide)
	profitFloat := profit.InexactFloat64()
	settledAt := l.now()

	updated := current.Clone()
	updated.Outcome = &winner
	updated.Profit = &profitFloat
	updated.Status = models.MatchStatusSettled
	updated.SettledAt = &settledAt

	if err := l.repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	l.entries[pos] = updated
	l.cumulative = l.cumulative.Add(profit)
	return updated.Clone(), nil
}

// StakeProfit returns the profit of a one-unit stake at odd
func StakeProfit(odd float64, won bool) decimal.Decimal {
	if won {
		return decimal.NewFromFloat(odd).Sub(decimal.NewFromInt(1))
	}
	return decimal.NewFromInt(-1)
}

// CumulativeProfit is the running total of settled profit
func (l *Ledger) CumulativeProfit() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cumulative
}

// RecomputeProfit sums profit from the settled entries
func (l *Ledger) RecomputeProfit() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sumProfit(l.entries)
}

// Entries returns copies of all entries in recording order
func (l *Ledger) Entries() []*models.MatchEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*models.MatchEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Clone()
	}
	return out
}

// Entry returns a copy of the entry with the given index
func (l *Ledger) Entry(index int) (*models.MatchEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	pos, err := l.position(index)
	if err != nil {
		return nil, err
	}
	return l.entries[pos].Clone(), nil
}

// Pending returns the entries still awaiting a result
func (l *Ledger) Pending() []*models.MatchEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*models.MatchEntry
	for _, e := range l.entries {
		if !e.IsSettled() {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Summary aggregates counts, profit and ROI per unit staked
func (l *Ledger) Summary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := Summary{Entries: len(l.entries)}
	for _, e := range l.entries {
		if !e.IsSettled() {
			s.Pending++
			continue
		}
		s.Settled++
		if *e.Outcome == *e.ValueSide {
			s.Wins++
		} else {
			s.Losses++
		}
	}
	s.CumulativeProfit = l.cumulative.InexactFloat64()
	if s.Settled > 0 {
		s.ROI = l.cumulative.Div(decimal.NewFromInt(int64(s.Settled))).InexactFloat64()
	}
	return s
}

// Len returns the number of entries
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Ledger) nextIndex() int {
	if len(l.entries) == 0 {
		return 0
	}
	return l.entries[len(l.entries)-1].Index + 1
}

func (l *Ledger) position(index int) (int, error) {
	for i, e := range l.entries {
		if e.Index == index {
			return i, nil
		}
	}
	return 0, fmt.Errorf("entry %d: %w", index, models.ErrNotFound)
}

func sumProfit(entries []*models.MatchEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.IsSettled() && e.Profit != nil {
			total = total.Add(decimal.NewFromFloat(*e.Profit))
		}
	}
	return total
}
