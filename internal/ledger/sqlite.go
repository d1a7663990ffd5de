package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/yourusername/tennis-edge/internal/models"
)

// SQLiteRepository stores the ledger in a local SQLite file
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (and if needed creates) the ledger database at path
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS match_ledger (
		idx INTEGER PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		player1 TEXT NOT NULL,
		player2 TEXT NOT NULL,
		surface TEXT NOT NULL,
		odd1 REAL NOT NULL,
		odd2 REAL NOT NULL,
		model_prob1 REAL NOT NULL,
		model_prob2 REAL NOT NULL,
		value_side TEXT,
		value_odd REAL,
		value_prob REAL,
		outcome TEXT,
		profit REAL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL,
		settled_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_match_ledger_status ON match_ledger(status);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// List returns all entries ordered by index
func (r *SQLiteRepository) List(ctx context.Context) ([]*models.MatchEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT idx, id, player1, player2, surface, odd1, odd2, model_prob1, model_prob2,
		       value_side, value_odd, value_prob, outcome, profit, status, created_at, settled_at
		FROM match_ledger
		ORDER BY idx ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var entries []*models.MatchEntry
	for rows.Next() {
		var (
			e       models.MatchEntry
			id      string
			surface string
			status  string
		)
		if err := rows.Scan(&e.Index, &id, &e.Player1, &e.Player2, &surface, &e.Odd1, &e.Odd2,
			&e.ModelProb1, &e.ModelProb2, &e.ValueSide, &e.ValueOdd, &e.ValueProb,
			&e.Outcome, &e.Profit, &status, &e.CreatedAt, &e.SettledAt); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("scanning ledger row %d: %w", e.Index, err)
		}
		e.ID = parsed
		e.Surface = models.Surface(surface)
		e.Status = models.MatchStatus(status)
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// Insert adds a new entry
func (r *SQLiteRepository) Insert(ctx context.Context, e *models.MatchEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO match_ledger (idx, id, player1, player2, surface, odd1, odd2, model_prob1, model_prob2,
		                          value_side, value_odd, value_prob, outcome, profit, status, created_at, settled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.Index, e.ID.String(), e.Player1, e.Player2, string(e.Surface), e.Odd1, e.Odd2,
		e.ModelProb1, e.ModelProb2, e.ValueSide, e.ValueOdd, e.ValueProb,
		e.Outcome, e.Profit, string(e.Status), e.CreatedAt, e.SettledAt)
	if err != nil {
		return fmt.Errorf("inserting ledger entry: %w", err)
	}
	return nil
}

// Update writes the settlement fields of an entry
func (r *SQLiteRepository) Update(ctx context.Context, e *models.MatchEntry) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE match_ledger SET outcome = ?, profit = ?, status = ?, settled_at = ?
		WHERE idx = ?
	`, e.Outcome, e.Profit, string(e.Status), e.SettledAt, e.Index)
	if err != nil {
		return fmt.Errorf("updating ledger entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating ledger entry: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
