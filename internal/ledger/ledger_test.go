package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/value"
)

func valueInput(p1, p2 string, odd1, odd2 float64) EntryInput {
	return EntryInput{
		Player1:    p1,
		Player2:    p2,
		Surface:    models.SurfaceHard,
		Odd1:       odd1,
		Odd2:       odd2,
		ModelProb1: 0.7,
		ModelProb2: 0.3,
		Decision: value.Decision{
			Side:      value.Side1,
			Player:    p1,
			Odds:      odd1,
			ModelProb: 0.7,
			Edge:      0.1,
		},
	}
}

func TestRecordRejectsNoValue(t *testing.T) {
	l := New(NewMemoryRepository())
	in := valueInput("A", "B", 1.5, 2.5)
	in.Decision = value.NoValue

	_, err := l.Record(context.Background(), in)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, 0, l.Len())
}

func TestRecordAssignsSequentialIndices(t *testing.T) {
	l := New(NewMemoryRepository())
	ctx := context.Background()

	first, err := l.Record(ctx, valueInput("A", "B", 1.5, 2.5))
	require.NoError(t, err)
	second, err := l.Record(ctx, valueInput("C", "D", 1.8, 2.0))
	require.NoError(t, err)

	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 1, second.Index)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.MatchStatusPending, first.Status)
	assert.Equal(t, "A", *first.ValueSide)
	assert.Equal(t, 1.5, *first.ValueOdd)
	assert.Len(t, l.Pending(), 2)
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name       string
		winner     string
		wantProfit float64
	}{
		{name: "value side wins", winner: "A", wantProfit: 1.5},
		{name: "value side loses", winner: "B", wantProfit: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(NewMemoryRepository())
			ctx := context.Background()
			_, err := l.Record(ctx, valueInput("A", "B", 2.5, 1.6))
			require.NoError(t, err)

			settled, err := l.Settle(ctx, 0, tt.winner)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantProfit, settled.GetProfit(), 1e-9)
			assert.True(t, settled.IsSettled())
			assert.Equal(t, tt.winner, *settled.Outcome)
			assert.NotNil(t, settled.SettledAt)
			assert.InDelta(t, tt.wantProfit, l.CumulativeProfit().InexactFloat64(), 1e-9)
			assert.Empty(t, l.Pending())
		})
	}
}

func TestSettleErrors(t *testing.T) {
	l := New(NewMemoryRepository())
	ctx := context.Background()
	_, err := l.Record(ctx, valueInput("A", "B", 1.5, 2.5))
	require.NoError(t, err)

	_, err = l.Settle(ctx, 7, "A")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = l.Settle(ctx, 0, "Nobody")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = l.Settle(ctx, 0, "A")
	require.NoError(t, err)

	_, err = l.Settle(ctx, 0, "B")
	assert.ErrorIs(t, err, models.ErrAlreadySettled)
	assert.InDelta(t, 0.5, l.CumulativeProfit().InexactFloat64(), 1e-9)
}

func TestCumulativeMatchesRecompute(t *testing.T) {
	l := New(NewMemoryRepository())
	ctx := context.Background()

	odds := []float64{1.5, 2.2, 3.1, 1.9}
	for _, o := range odds {
		_, err := l.Record(ctx, valueInput("A", "B", o, 2.0))
		require.NoError(t, err)
	}
	for i, winner := range []string{"A", "B", "A", "B"} {
		_, err := l.Settle(ctx, i, winner)
		require.NoError(t, err)
	}

	assert.True(t, l.CumulativeProfit().Equal(l.RecomputeProfit()))
	assert.InDelta(t, 0.5-1+2.1-1, l.CumulativeProfit().InexactFloat64(), 1e-9)
}

func TestSummary(t *testing.T) {
	l := New(NewMemoryRepository())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := l.Record(ctx, valueInput("A", "B", 2.0, 2.0))
		require.NoError(t, err)
	}
	_, err := l.Settle(ctx, 0, "A")
	require.NoError(t, err)
	_, err = l.Settle(ctx, 1, "B")
	require.NoError(t, err)

	s := l.Summary()
	assert.Equal(t, 3, s.Entries)
	assert.Equal(t, 2, s.Settled)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 0.0, s.CumulativeProfit, 1e-9)
	assert.InDelta(t, 0.0, s.ROI, 1e-9)
}

func TestEntriesAreCopies(t *testing.T) {
	l := New(NewMemoryRepository())
	_, err := l.Record(context.Background(), valueInput("A", "B", 1.5, 2.5))
	require.NoError(t, err)

	entries := l.Entries()
	entries[0].Player1 = "mutated"

	got, err := l.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Player1)
}

type failingRepository struct {
	*MemoryRepository
}

func (f failingRepository) Update(ctx context.Context, entry *models.MatchEntry) error {
	return errors.New("disk full")
}

func TestSettleLeavesStateOnRepositoryFailure(t *testing.T) {
	l := New(failingRepository{NewMemoryRepository()})
	ctx := context.Background()
	_, err := l.Record(ctx, valueInput("A", "B", 1.5, 2.5))
	require.NoError(t, err)

	_, err = l.Settle(ctx, 0, "A")
	require.Error(t, err)

	entry, err := l.Entry(0)
	require.NoError(t, err)
	assert.False(t, entry.IsSettled())
	assert.True(t, l.CumulativeProfit().IsZero())
}

func exerciseRepository(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	l := New(repo)
	require.NoError(t, l.Load(ctx))
	_, err := l.Record(ctx, valueInput("A", "B", 1.5, 2.5))
	require.NoError(t, err)
	_, err = l.Record(ctx, valueInput("C", "D", 2.4, 1.6))
	require.NoError(t, err)
	_, err = l.Settle(ctx, 1, "D")
	require.NoError(t, err)

	reloaded := New(repo)
	require.NoError(t, reloaded.Load(ctx))
	entries := reloaded.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, "A", entries[0].Player1)
	assert.Equal(t, models.SurfaceHard, entries[0].Surface)
	assert.False(t, entries[0].IsSettled())
	assert.Nil(t, entries[0].Outcome)

	assert.True(t, entries[1].IsSettled())
	assert.Equal(t, "D", *entries[1].Outcome)
	assert.InDelta(t, -1.0, entries[1].GetProfit(), 1e-9)
	assert.InDelta(t, -1.0, reloaded.CumulativeProfit().InexactFloat64(), 1e-9)

	next, err := reloaded.Record(ctx, valueInput("E", "F", 1.7, 2.2))
	require.NoError(t, err)
	assert.Equal(t, 2, next.Index)
}

func TestMemoryRepositoryReload(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestSQLiteRepositoryReload(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	exerciseRepository(t, repo)
}

func TestPostgresRepositoryReload(t *testing.T) {
	db := database.SetupTestDB(t)
	exerciseRepository(t, NewPostgresRepository(db))
}
