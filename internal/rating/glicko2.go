package rating

import (
	"math"

	"github.com/yourusername/tennis-edge/internal/models"
)

// glickoScale and glickoCenter map the public rating scale onto mu/phi.
// DefaultTau constrains volatility change between rating periods.
const (
	glickoScale   = 173.7178
	glickoCenter  = 1500.0
	DefaultTau    = 0.5
	convergence   = 1e-6
	maxIterations = 100
)

func toMuPhi(r models.PlayerRating) (float64, float64) {
	return (r.Rating - glickoCenter) / glickoScale, r.Deviation / glickoScale
}

// gPhi is g() expressed on the Glicko-2 scale
func gPhi(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*phi*phi/(math.Pi*math.Pi))
}

func expected(mu, muj, phij float64) float64 {
	return 1.0 / (1.0 + math.Exp(-gPhi(phij)*(mu-muj)))
}

// Update applies a single-game Glicko-2 rating period to player against
// opponent. score is 1 for a win and 0 for a loss. Opponent values are read
// as they were before the game.
func Update(player, opponent models.PlayerRating, score, tau float64) models.PlayerRating {
	mu, phi := toMuPhi(player)
	muj, phij := toMuPhi(opponent)
	sigma := player.Volatility

	gj := gPhi(phij)
	e := expected(mu, muj, phij)
	v := 1.0 / (gj * gj * e * (1 - e))
	delta := v * gj * (score - e)

	sigmaNew := volatility(sigma, delta, phi, v, tau)

	phiStar := math.Sqrt(phi*phi + sigmaNew*sigmaNew)
	phiNew := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	muNew := mu + phiNew*phiNew*gj*(score-e)

	return models.PlayerRating{
		Rating:     muNew*glickoScale + glickoCenter,
		Deviation:  phiNew * glickoScale,
		Volatility: sigmaNew,
	}
}

// UpdateMatch returns the post-match ratings of the winner and the loser
func UpdateMatch(winner, loser models.PlayerRating, tau float64) (models.PlayerRating, models.PlayerRating) {
	return Update(winner, loser, 1, tau), Update(loser, winner, 0, tau)
}

// volatility solves step 5 of the Glicko-2 paper with the Illinois algorithm
func volatility(sigma, delta, phi, v, tau float64) float64 {
	a := math.Log(sigma * sigma)
	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (delta*delta - phi*phi - v - ex)
		den := 2.0 * (phi*phi + v + ex) * (phi*phi + v + ex)
		return num/den - (x-a)/(tau*tau)
	}

	A := a
	var B float64
	if delta*delta > phi*phi+v {
		B = math.Log(delta*delta - phi*phi - v)
	} else {
		k := 1.0
		for f(a-k*tau) < 0 && k < maxIterations {
			k++
		}
		B = a - k*tau
	}

	fA, fB := f(A), f(B)
	for i := 0; i < maxIterations && math.Abs(B-A) > convergence; i++ {
		C := A + (A-B)*fA/(fB-fA)
		fC := f(C)
		if math.IsNaN(fC) || math.IsInf(fC, 0) {
			break
		}
		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}
	return math.Exp(A / 2)
}
