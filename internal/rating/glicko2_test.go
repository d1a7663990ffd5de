package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/tennis-edge/internal/models"
)

func TestUpdateMatchEqualPlayers(t *testing.T) {
	a := models.NewPlayerRating()
	b := models.NewPlayerRating()

	winner, loser := UpdateMatch(a, b, DefaultTau)

	assert.Greater(t, winner.Rating, a.Rating)
	assert.Less(t, loser.Rating, b.Rating)
	assert.InDelta(t, winner.Rating-a.Rating, b.Rating-loser.Rating, 1e-6)
	assert.Less(t, winner.Deviation, a.Deviation)
	assert.Less(t, loser.Deviation, b.Deviation)
	assert.InDelta(t, winner.Deviation, loser.Deviation, 1e-6)
	assert.Greater(t, winner.Volatility, 0.0)
}

func TestUpdateUpsetMovesMoreThanExpectedResult(t *testing.T) {
	favourite := models.PlayerRating{Rating: 1700, Deviation: 80, Volatility: 0.06}
	underdog := models.PlayerRating{Rating: 1400, Deviation: 80, Volatility: 0.06}

	expectedWinner, _ := UpdateMatch(favourite, underdog, DefaultTau)
	upsetWinner, _ := UpdateMatch(underdog, favourite, DefaultTau)

	expectedGain := expectedWinner.Rating - favourite.Rating
	upsetGain := upsetWinner.Rating - underdog.Rating
	assert.Greater(t, upsetGain, expectedGain)
	assert.Greater(t, expectedGain, 0.0)
}

func TestUpdateVolatilityStaysReasonable(t *testing.T) {
	player := models.PlayerRating{Rating: 1500, Deviation: 200, Volatility: 0.06}
	opponent := models.PlayerRating{Rating: 1400, Deviation: 30, Volatility: 0.06}

	updated := Update(player, opponent, 1, DefaultTau)
	assert.InDelta(t, 0.06, updated.Volatility, 0.001)
	assert.Greater(t, updated.Rating, player.Rating)
	assert.Less(t, updated.Deviation, player.Deviation)
}
