// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogEntryRecorded logs a new ledger entry.
func (al *AuditLogger) LogEntryRecorded(index int, entryID, player1, player2, valueSide string, valueOdd float64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"index":      index,
		"entry_id":   entryID,
		"player1":    player1,
		"player2":    player2,
		"value_side": valueSide,
		"value_odd":  valueOdd,
		"timestamp":  timestamp.Unix(),
	}).Info("Ledger entry recorded")
}

// LogEntrySettled logs a ledger state change from pending to settled.
func (al *AuditLogger) LogEntrySettled(index int, entryID, winner string, profit float64) {
	al.WithFields(logrus.Fields{
		"index":     index,
		"entry_id":  entryID,
		"old_state": "pending",
		"new_state": "settled",
		"winner":    winner,
		"profit":    profit,
	}).Info("Ledger entry settled")
}

// LogSnapshotSaved logs a rating store persistence write.
func (al *AuditLogger) LogSnapshotSaved(backend string, players int, reason string) {
	al.WithFields(logrus.Fields{
		"backend": backend,
		"players": players,
		"reason":  reason,
	}).Info("Rating snapshot saved")
}

// LogSnapshotLoaded logs the rating state restored at session start.
func (al *AuditLogger) LogSnapshotLoaded(backend string, players int, absent bool) {
	al.WithFields(logrus.Fields{
		"backend": backend,
		"players": players,
		"absent":  absent,
	}).Info("Rating snapshot loaded")
}
