package database

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS rating_snapshots (
	id         SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	payload    BYTEA NOT NULL,
	players    INTEGER NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS match_ledger (
	idx         INTEGER PRIMARY KEY,
	id          UUID NOT NULL UNIQUE,
	player1     TEXT NOT NULL,
	player2     TEXT NOT NULL,
	surface     TEXT NOT NULL,
	odd1        DOUBLE PRECISION NOT NULL,
	odd2        DOUBLE PRECISION NOT NULL,
	model_prob1 DOUBLE PRECISION NOT NULL,
	model_prob2 DOUBLE PRECISION NOT NULL,
	value_side  TEXT,
	value_odd   DOUBLE PRECISION,
	value_prob  DOUBLE PRECISION,
	outcome     TEXT,
	profit      DOUBLE PRECISION,
	status      TEXT NOT NULL DEFAULT 'pending',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	settled_at  TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_match_ledger_status ON match_ledger(status);
`

// EnsureSchema creates the tables used by the postgres backends
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
