// Package rating implements the Glicko-2 based skill model and the player rating store.
package rating

import (
	"math"

	"github.com/yourusername/tennis-edge/internal/models"
)

// Surface blending weights. A match-level strength is 90% overall form and 10%
// surface-specific form.
const (
	OverallWeight = 0.9
	SurfaceWeight = 0.1
)

// q = ln(10)/400 converts the rating scale to natural-log odds
const q = math.Ln10 / 400.0

// probabilityFloor keeps WinProbability strictly inside (0,1) for huge rating gaps
const probabilityFloor = 1e-12

// BlendedStrength is the effective rating of a player for one match
type BlendedStrength struct {
	Rating    float64 `json:"rating"`
	Deviation float64 `json:"deviation"`
}

// Blend weights the overall and surface ratings of a player into one strength
func Blend(set models.RatingSet, surface models.Surface) BlendedStrength {
	s := set.Surface(surface)
	return BlendedStrength{
		Rating:    OverallWeight*set.Overall.Rating + SurfaceWeight*s.Rating,
		Deviation: OverallWeight*set.Overall.Deviation + SurfaceWeight*s.Deviation,
	}
}

// g discounts the opponent's rating as its deviation grows
func g(rd float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*(q*rd)*(q*rd)/(math.Pi*math.Pi))
}

// WinProbability returns the expected score of player 1 against player 2.
// rd1 is part of the signature for symmetry; only the opponent deviation
// compresses the expectation toward 0.5.
func WinProbability(r1, rd1, r2, rd2 float64) float64 {
	_ = rd1
	e := 1.0 / (1.0 + math.Pow(10, -g(rd2)*(r1-r2)/400.0))
	return math.Min(math.Max(e, probabilityFloor), 1-probabilityFloor)
}

// MatchProbabilities returns the blended model probabilities of both players
// winning a match on the given surface. The pair always sums to 1.
func MatchProbabilities(set1, set2 models.RatingSet, surface models.Surface) (float64, float64, BlendedStrength, BlendedStrength) {
	b1 := Blend(set1, surface)
	b2 := Blend(set2, surface)
	p1 := WinProbability(b1.Rating, b1.Deviation, b2.Rating, b2.Deviation)
	return p1, 1 - p1, b1, b2
}
