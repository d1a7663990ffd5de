// Package value compares model probabilities with de-vigged market
// probabilities and decides whether either side of a match is a value bet.
package value

// Side identifies which player of a match carries value
type Side int

const (
	SideNone Side = iota
	Side1
	Side2
)

// String returns the ledger label for the side
func (s Side) String() string {
	switch s {
	case Side1:
		return "player1"
	case Side2:
		return "player2"
	default:
		return "none"
	}
}

// MarshalText encodes the side by its ledger label
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Decision is the outcome of a value check. The zero value means no value.
type Decision struct {
	Side      Side    `json:"side"`
	Player    string  `json:"player,omitempty"`
	Odds      float64 `json:"odds,omitempty"`
	ModelProb float64 `json:"model_prob,omitempty"`
	Edge      float64 `json:"edge,omitempty"`
}

// HasValue reports whether a value side was found
func (d Decision) HasValue() bool {
	return d.Side != SideNone
}

// NoValue is the decision for a match where neither side beats the market
var NoValue = Decision{}

// Input bundles the probabilities and prices for one match
type Input struct {
	Player1    string
	Player2    string
	ModelProb1 float64
	ModelProb2 float64
	DevigProb1 float64
	DevigProb2 float64
	Odd1       float64
	Odd2       float64
}

// Decide flags a side when the model assigns it strictly more probability than
// the de-vigged market. Both sides are checked independently; if both pass,
// player 1 is chosen.
func Decide(in Input) Decision {
	value1 := in.ModelProb1 > in.DevigProb1
	value2 := in.ModelProb2 > in.DevigProb2

	switch {
	case value1:
		return Decision{
			Side:      Side1,
			Player:    in.Player1,
			Odds:      in.Odd1,
			ModelProb: in.ModelProb1,
			Edge:      in.ModelProb1 - in.DevigProb1,
		}
	case value2:
		return Decision{
			Side:      Side2,
			Player:    in.Player2,
			Odds:      in.Odd2,
			ModelProb: in.ModelProb2,
			Edge:      in.ModelProb2 - in.DevigProb2,
		}
	default:
		return NoValue
	}
}
