package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tennis-edge/internal/logger"
)

type countingSaver struct {
	calls  atomic.Int32
	reason atomic.Value
	err    error
}

func (c *countingSaver) SaveSnapshot(ctx context.Context, reason string) error {
	c.calls.Add(1)
	c.reason.Store(reason)
	return c.err
}

func TestScheduleAutosaveRuns(t *testing.T) {
	s := NewScheduler(logger.NewNopLogger())
	saver := &countingSaver{}

	require.NoError(t, s.ScheduleAutosave("@every 1s", saver))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())
	require.Eventually(t, func() bool { return saver.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	assert.Equal(t, "autosave", saver.reason.Load())
}

func TestAutosaveFailureIsLogged(t *testing.T) {
	s := NewScheduler(logger.NewNopLogger())
	saver := &countingSaver{err: errors.New("disk full")}

	assert.NotPanics(t, func() { s.runAutosave(saver) })
	assert.Equal(t, int32(1), saver.calls.Load())
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	s := NewScheduler(logger.NewNopLogger())
	assert.Error(t, s.ScheduleAutosave("not a cron", &countingSaver{}))
}

func TestStartRequiresJobs(t *testing.T) {
	s := NewScheduler(logger.NewNopLogger())
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestCannotScheduleWhileRunning(t *testing.T) {
	s := NewScheduler(logger.NewNopLogger())
	require.NoError(t, s.ScheduleAutosave("*/15 * * * *", &countingSaver{}))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.ScheduleAutosave("*/5 * * * *", &countingSaver{}))
	assert.Error(t, s.Start())

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
}
