package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus represents the settlement state of a ledger entry
type MatchStatus string

const (
	MatchStatusPending MatchStatus = "pending"
	MatchStatusSettled MatchStatus = "settled"
)

// MatchEntry is one evaluated match recorded in the ledger
type MatchEntry struct {
	Index      int         `db:"idx" json:"index"`
	ID         uuid.UUID   `db:"id" json:"id"`
	Player1    string      `db:"player1" json:"player1"`
	Player2    string      `db:"player2" json:"player2"`
	Surface    Surface     `db:"surface" json:"surface"`
	Odd1       float64     `db:"odd1" json:"odd1"`
	Odd2       float64     `db:"odd2" json:"odd2"`
	ModelProb1 float64     `db:"model_prob1" json:"model_prob1"`
	ModelProb2 float64     `db:"model_prob2" json:"model_prob2"`
	ValueSide  *string     `db:"value_side" json:"value_side,omitempty"`
	ValueOdd   *float64    `db:"value_odd" json:"value_odd,omitempty"`
	ValueProb  *float64    `db:"value_prob" json:"value_prob,omitempty"`
	Outcome    *string     `db:"outcome" json:"outcome,omitempty"`
	Profit     *float64    `db:"profit" json:"profit,omitempty"`
	Status     MatchStatus `db:"status" json:"status"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	SettledAt  *time.Time  `db:"settled_at" json:"settled_at,omitempty"`
}

// IsSettled checks if an outcome has been recorded for the entry
func (m *MatchEntry) IsSettled() bool {
	return m.Status == MatchStatusSettled && m.Outcome != nil
}

// HasPlayer reports whether name is one of the two players of the match
func (m *MatchEntry) HasPlayer(name string) bool {
	return name == m.Player1 || name == m.Player2
}

// GetProfit returns the realised profit, or 0 while pending
func (m *MatchEntry) GetProfit() float64 {
	if m.Profit == nil {
		return 0
	}
	return *m.Profit
}

// Clone returns a deep copy of the entry
func (m *MatchEntry) Clone() *MatchEntry {
	out := *m
	out.ValueSide = cloneString(m.ValueSide)
	out.Outcome = cloneString(m.Outcome)
	out.ValueOdd = cloneFloat(m.ValueOdd)
	out.ValueProb = cloneFloat(m.ValueProb)
	out.Profit = cloneFloat(m.Profit)
	if m.SettledAt != nil {
		t := *m.SettledAt
		out.SettledAt = &t
	}
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
