package models

import (
	"encoding/json"
	"time"
)

// RemotePrediction is the result returned by the remote prediction service
type RemotePrediction struct {
	Category              Category        `json:"category"`
	Player1               string          `json:"player1"`
	Player2               string          `json:"player2"`
	Player1WinProbability float64         `json:"player1_win_probability" validate:"gte=0,lte=1"`
	Raw                   json.RawMessage `json:"raw,omitempty"`
	FetchedAt             time.Time       `json:"fetched_at"`
}

// Player2WinProbability returns the complementary probability
func (p *RemotePrediction) Player2WinProbability() float64 {
	return 1 - p.Player1WinProbability
}
