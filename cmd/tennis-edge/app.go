package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/feed"
	"github.com/yourusername/tennis-edge/internal/ledger"
	"github.com/yourusername/tennis-edge/internal/predictor"
	"github.com/yourusername/tennis-edge/internal/rating"
	"github.com/yourusername/tennis-edge/internal/session"
)

// app holds the wired dependencies of one process
type app struct {
	db         *database.DB
	ledgerRepo ledger.Repository
	predictor  *predictor.Client
	session    *session.Session
}

// buildApp connects the configured backends and opens the session
func buildApp(ctx context.Context, cfg *config.Config, log *logrus.Logger, hub feed.Publisher) (*app, error) {
	a := &app{}

	if cfg.UsesPostgres() {
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		if err := db.EnsureSchema(ctx); err != nil {
			a.close()
			return nil, err
		}
		log.WithField("host", cfg.Database.Host).Info("Database connection established")
	}

	snapshots, err := newSnapshotStore(cfg, a.db)
	if err != nil {
		a.close()
		return nil, err
	}

	a.ledgerRepo, err = newLedgerRepository(cfg, a.db)
	if err != nil {
		a.close()
		return nil, err
	}

	a.predictor = predictor.NewClient(&cfg.Predictor, log)

	a.session = session.New(session.Options{
		Snapshots:       snapshots,
		SnapshotBackend: cfg.Rating.SnapshotBackend,
		Ledger:          ledger.New(a.ledgerRepo),
		Predictor:       a.predictor,
		Feed:            hub,
		UpdateOnSettle:  cfg.Rating.UpdateOnSettle,
		Tau:             cfg.Rating.Tau,
		Logger:          log,
	})
	if err := a.session.Open(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func newSnapshotStore(cfg *config.Config, db *database.DB) (rating.SnapshotStore, error) {
	switch cfg.Rating.SnapshotBackend {
	case "file":
		return rating.NewFileSnapshotStore(cfg.Rating.SnapshotPath), nil
	case "postgres":
		return rating.NewPostgresSnapshotStore(db), nil
	case "memory":
		return rating.NewMemorySnapshotStore(), nil
	default:
		return nil, fmt.Errorf("unknown rating snapshot backend %q", cfg.Rating.SnapshotBackend)
	}
}

func newLedgerRepository(cfg *config.Config, db *database.DB) (ledger.Repository, error) {
	switch cfg.Ledger.Backend {
	case "memory":
		return ledger.NewMemoryRepository(), nil
	case "sqlite":
		repo, err := ledger.NewSQLiteRepository(cfg.Ledger.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "postgres":
		return ledger.NewPostgresRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

// shutdown persists ratings and releases every resource
func (a *app) shutdown(ctx context.Context) error {
	var err error
	if a.session != nil {
		err = a.session.Close(ctx)
	}
	a.close()
	return err
}

func (a *app) close() {
	if a.predictor != nil {
		a.predictor.Close()
	}
	if a.ledgerRepo != nil {
		a.ledgerRepo.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
