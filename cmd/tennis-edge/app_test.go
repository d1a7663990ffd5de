package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/session"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	c, err := config.LoadWithDefaults(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	c.Rating.SnapshotBackend = "file"
	c.Rating.SnapshotPath = filepath.Join(dir, "ratings.gob")
	c.Ledger.Backend = "sqlite"
	c.Ledger.SQLitePath = filepath.Join(dir, "ledger.db")
	require.NoError(t, config.Validate(c))
	return c
}

func TestBuildAppPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)
	log := logger.NewNopLogger()

	a, err := buildApp(ctx, c, log, nil)
	require.NoError(t, err)

	eval, err := a.session.Evaluate(ctx, session.MatchRequest{
		Player1: "Alice", Player2: "Bob", Surface: "clay", Odd1: 1.5, Odd2: 2.8,
	})
	require.NoError(t, err)
	require.NotNil(t, eval.Entry)
	require.NoError(t, a.shutdown(ctx))

	reopened, err := buildApp(ctx, c, log, nil)
	require.NoError(t, err)
	defer reopened.shutdown(ctx)

	assert.Equal(t, []string{"Alice", "Bob"}, reopened.session.Players())
	require.Len(t, reopened.session.Entries(), 1)
	entry := reopened.session.Entries()[0]
	require.NotNil(t, entry.ValueSide)
	assert.Equal(t, "Bob", *entry.ValueSide)

	settlement, err := reopened.session.Settle(ctx, 0, "Bob")
	require.NoError(t, err)
	assert.InDelta(t, 1.8, settlement.Profit, 1e-9)
}

func TestBuildAppUnknownBackend(t *testing.T) {
	c := testConfig(t)
	c.Ledger.Backend = "redis"

	_, err := buildApp(context.Background(), c, logger.NewNopLogger(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ledger backend")
}

func TestRosterCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "players.txt")
	require.NoError(t, os.WriteFile(path, []byte("Rafael Nadal 1.85\nNovak Djokovic\n\nRafael Nadal\n"), 0o644))

	t.Setenv("TENNIS_EDGE_RATING_SNAPSHOT_BACKEND", "memory")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--env-file", filepath.Join(dir, "missing.env"),
		"roster", path,
	})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Equal(t, "Rafael Nadal\nNovak Djokovic\n", out.String())
}
