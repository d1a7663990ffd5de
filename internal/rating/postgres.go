package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/models"
)

// PostgresSnapshotStore keeps the rating snapshot blob in a single-row table
type PostgresSnapshotStore struct {
	db *database.DB
}

// NewPostgresSnapshotStore creates a postgres backed snapshot store
func NewPostgresSnapshotStore(db *database.DB) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{db: db}
}

// Load reads the stored snapshot, returning ErrSnapshotAbsent when none exists
func (ps *PostgresSnapshotStore) Load(ctx context.Context) (map[string]models.RatingSet, error) {
	var payload []byte
	err := ps.db.GetPool().QueryRow(ctx, `SELECT payload FROM rating_snapshots WHERE id = 1`).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSnapshotAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rating snapshot: %w", err)
	}
	return Decode(payload)
}

// Save upserts the snapshot blob
func (ps *PostgresSnapshotStore) Save(ctx context.Context, snapshot map[string]models.RatingSet) error {
	payload, err := Encode(snapshot)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rating_snapshots (id, payload, players, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET
			payload = EXCLUDED.payload,
			players = EXCLUDED.players,
			updated_at = NOW()
	`
	if _, err := ps.db.GetPool().Exec(ctx, query, payload, len(snapshot)); err != nil {
		return fmt.Errorf("failed to save rating snapshot: %w", err)
	}
	return nil
}
