// Package odds converts bookmaker decimal odds into probabilities.
package odds

import (
	"fmt"
	"math"

	"github.com/yourusername/tennis-edge/internal/models"
)

// Implied converts decimal odds to the bookmaker implied probability
func Implied(odd float64) (float64, error) {
	if err := validateOdd(odd); err != nil {
		return 0, err
	}
	return 1.0 / odd, nil
}

// Devig removes the bookmaker margin from a two-way market.
//
// Method: multiplicative (proportional) vig removal
// p1 = imp1 / (imp1 + imp2)
// p2 = imp2 / (imp1 + imp2)
func Devig(odd1, odd2 float64) (float64, float64, error) {
	imp1, err := Implied(odd1)
	if err != nil {
		return 0, 0, err
	}
	imp2, err := Implied(odd2)
	if err != nil {
		return 0, 0, err
	}

	total := imp1 + imp2
	p1 := imp1 / total
	return p1, 1 - p1, nil
}

// Overround returns the bookmaker margin of a two-way market, e.g. 0.0667 for 6.67%
func Overround(odd1, odd2 float64) (float64, error) {
	imp1, err := Implied(odd1)
	if err != nil {
		return 0, err
	}
	imp2, err := Implied(odd2)
	if err != nil {
		return 0, err
	}
	return imp1 + imp2 - 1, nil
}

func validateOdd(odd float64) error {
	if math.IsNaN(odd) || math.IsInf(odd, 0) || odd <= 1.0 {
		return fmt.Errorf("%w: decimal odds must be greater than 1.0, got %v", models.ErrInvalidOdds, odd)
	}
	return nil
}
