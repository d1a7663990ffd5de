package ledger

import (
	"context"
	"fmt"

	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/models"
)

// PostgresRepository implements Repository for PostgreSQL
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new ledger repository
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List retrieves every entry ordered by index
func (p *PostgresRepository) List(ctx context.Context) ([]*models.MatchEntry, error) {
	query := `
		SELECT idx, id, player1, player2, surface, odd1, odd2, model_prob1, model_prob2,
		       value_side, value_odd, value_prob, outcome, profit, status, created_at, settled_at
		FROM match_ledger
		ORDER BY idx ASC
	`

	rows, err := p.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var entries []*models.MatchEntry
	for rows.Next() {
		var (
			e       models.MatchEntry
			surface string
			status  string
		)
		err := rows.Scan(
			&e.Index, &e.ID, &e.Player1, &e.Player2, &surface, &e.Odd1, &e.Odd2,
			&e.ModelProb1, &e.ModelProb2, &e.ValueSide, &e.ValueOdd, &e.ValueProb,
			&e.Outcome, &e.Profit, &status, &e.CreatedAt, &e.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Surface = models.Surface(surface)
		e.Status = models.MatchStatus(status)
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// Insert adds a new entry
func (p *PostgresRepository) Insert(ctx context.Context, e *models.MatchEntry) error {
	query := `
		INSERT INTO match_ledger (idx, id, player1, player2, surface, odd1, odd2, model_prob1, model_prob2,
		                          value_side, value_odd, value_prob, outcome, profit, status, created_at, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := p.db.GetPool().Exec(ctx, query,
		e.Index, e.ID, e.Player1, e.Player2, string(e.Surface), e.Odd1, e.Odd2,
		e.ModelProb1, e.ModelProb2, e.ValueSide, e.ValueOdd, e.ValueProb,
		e.Outcome, e.Profit, string(e.Status), e.CreatedAt, e.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

// Update writes the settlement fields of an entry
func (p *PostgresRepository) Update(ctx context.Context, e *models.MatchEntry) error {
	query := `
		UPDATE match_ledger SET outcome = $2, profit = $3, status = $4, settled_at = $5
		WHERE idx = $1
	`

	tag, err := p.db.GetPool().Exec(ctx, query, e.Index, e.Outcome, e.Profit, string(e.Status), e.SettledAt)
	if err != nil {
		return fmt.Errorf("failed to update ledger entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Close is a no-op; the pool is owned by the caller
func (p *PostgresRepository) Close() error {
	return nil
}
