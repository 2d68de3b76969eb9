package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) SweepExpired(_ context.Context, _ time.Time) (int64, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestScheduler_SweepsOnStartAndTick(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler(sweeper, 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	calls := sweeper.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, sweeper.calls.Load(), "no sweeps after Stop")
}

func TestScheduler_ContextCancel(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("db down")}
	s := NewScheduler(sweeper, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
	assert.Equal(t, int32(1), sweeper.calls.Load())
	s.Stop()
}
