package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurenote/futurenote/internal/service"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) Sweep(ctx context.Context) (*service.SweepResult, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &service.SweepResult{RanAt: time.Now().UTC()}, nil
}

type countingPruner struct {
	calls atomic.Int32
}

func (c *countingPruner) Prune(ctx context.Context) (int, error) {
	c.calls.Add(1)
	return 1, nil
}

func TestScheduler_RunsJobs(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	sweeper := &countingSweeper{err: errors.New("db down")}
	pruner := &countingPruner{}
	require.NoError(t, s.AddReminderSweep(sweeper, 20*time.Millisecond))
	require.NoError(t, s.AddLimiterPrune(pruner, 20*time.Millisecond))

	s.Start()
	t.Cleanup(func() { _ = s.Shutdown() })

	require.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2 && pruner.calls.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_ZeroIntervalDisables(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	sweeper := &countingSweeper{}
	require.NoError(t, s.AddReminderSweep(sweeper, 0))
	require.NoError(t, s.AddLimiterPrune(&countingPruner{}, 0))
	assert.Empty(t, s.sched.Jobs())

	s.Start()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.Shutdown())

	assert.Zero(t, sweeper.calls.Load())
}
