package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSurface(t *testing.T) {
	tests := []struct {
		in      string
		want    Surface
		wantErr bool
	}{
		{in: "hard", want: SurfaceHard},
		{in: " Clay ", want: SurfaceClay},
		{in: "GRASS", want: SurfaceGrass},
		{in: "carpet", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSurface(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory("wta")
	require.NoError(t, err)
	assert.Equal(t, CategoryWTA, got)

	_, err = ParseCategory("ITF")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRatingSetDefaultsAndClone(t *testing.T) {
	set := NewRatingSet()
	assert.Equal(t, NewPlayerRating(), set.Overall)
	assert.Len(t, set.Surfaces, len(Surfaces))

	clone := set.Clone()
	clone.Surfaces[SurfaceClay] = PlayerRating{Rating: 1800, Deviation: 50, Volatility: 0.06}
	assert.Equal(t, DefaultRating, set.Surface(SurfaceClay).Rating)

	delete(set.Surfaces, SurfaceGrass)
	assert.Equal(t, NewPlayerRating(), set.Surface(SurfaceGrass))
}

func TestMatchEntryClone(t *testing.T) {
	side := "Alice"
	profit := 0.5
	entry := &MatchEntry{Player1: "Alice", Player2: "Bob", ValueSide: &side, Profit: &profit}

	clone := entry.Clone()
	*clone.ValueSide = "Bob"
	*clone.Profit = -1

	assert.Equal(t, "Alice", *entry.ValueSide)
	assert.Equal(t, 0.5, entry.GetProfit())
	assert.True(t, entry.HasPlayer("Bob"))
	assert.False(t, entry.HasPlayer("Carol"))
	assert.False(t, entry.IsSettled())
}

func TestErrInvalidOddsIsInvalidInput(t *testing.T) {
	assert.True(t, errors.Is(ErrInvalidOdds, ErrInvalidInput))
}
