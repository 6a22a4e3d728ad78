package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls int64
}

func (c *countingSweeper) ProcessExpiredOffers(_ context.Context) (int, error) {
	atomic.AddInt64(&c.calls, 1)
	return 0, nil
}

func TestSchedulerSweepsOnInterval(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler(sweeper, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&sweeper.calls) >= 2
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
}

func TestNewSchedulerDefaultsInterval(t *testing.T) {
	s := NewScheduler(&countingSweeper{}, 0)
	assert.Equal(t, time.Minute, s.interval)
}
