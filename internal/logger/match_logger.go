// Package logger provides match evaluation logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// MatchLogger provides dedicated logging for match evaluation and settlement.
type MatchLogger struct {
	*logrus.Entry
}

// NewMatchLogger creates a new match logger.
func NewMatchLogger(baseLogger *logrus.Logger) *MatchLogger {
	return &MatchLogger{
		Entry: baseLogger.WithField("component", "match"),
	}
}

// LogEvaluation logs the model and market probabilities of an evaluated match.
func (ml *MatchLogger) LogEvaluation(player1, player2, surface string, modelProb1, modelProb2, devigProb1, devigProb2 float64) {
	ml.WithFields(logrus.Fields{
		"player1":     player1,
		"player2":     player2,
		"surface":     surface,
		"model_prob1": modelProb1,
		"model_prob2": modelProb2,
		"devig_prob1": devigProb1,
		"devig_prob2": devigProb2,
	}).Info("Match evaluated")
}

// LogValueDecision logs a detected value bet.
func (ml *MatchLogger) LogValueDecision(player string, odds, modelProb, edge float64) {
	ml.WithFields(logrus.Fields{
		"decision":   "VALUE",
		"value_side": player,
		"odds":       odds,
		"model_prob": modelProb,
		"edge":       edge,
	}).Info("Value bet detected")
}

// LogNoValue logs a match where neither side clears the market price.
func (ml *MatchLogger) LogNoValue(player1, player2 string) {
	ml.WithFields(logrus.Fields{
		"decision": "NO_VALUE",
		"player1":  player1,
		"player2":  player2,
	}).Info("No value detected, match not recorded")
}

// LogSettlement logs a settled ledger entry and the running profit.
func (ml *MatchLogger) LogSettlement(index int, winner string, profit, cumulativeProfit float64) {
	ml.WithFields(logrus.Fields{
		"index":             index,
		"winner":            winner,
		"profit":            profit,
		"cumulative_profit": cumulativeProfit,
	}).Info("Match settled")
}

// LogRatingUpdate logs a post-settlement rating change.
func (ml *MatchLogger) LogRatingUpdate(player, surface string, oldRating, newRating, newDeviation float64) {
	ml.WithFields(logrus.Fields{
		"player":        player,
		"surface":       surface,
		"old_rating":    oldRating,
		"new_rating":    newRating,
		"new_deviation": newDeviation,
	}).Debug("Rating updated")
}

// LogRemotePrediction logs a remote prediction service call.
func (ml *MatchLogger) LogRemotePrediction(category, player1, player2 string, probability float64, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"category":    category,
		"player1":     player1,
		"player2":     player2,
		"probability": probability,
		"cache_hit":   cacheHit,
		"latency_ms":  latencyMs,
	}).Info("Remote prediction completed")
}
