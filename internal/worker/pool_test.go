package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/movelens/internal/worker"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPoolRunsSubmittedJobs(t *testing.T) {
	pool := worker.NewPool("test", 2, 8)
	pool.Start(context.Background())

	var ran atomic.Int32
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		err := pool.Submit(funcJob{name: "count", fn: func(context.Context) error {
			ran.Add(1)
			done <- struct{}{}
			return nil
		}})
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	}
	pool.Stop()
	assert.Equal(t, int32(3), ran.Load())
}

func TestPoolSurvivesFailingAndPanickingJobs(t *testing.T) {
	pool := worker.NewPool("test", 1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	done := make(chan struct{})
	require.NoError(t, pool.Submit(funcJob{name: "fail", fn: func(context.Context) error { return errors.New("nope") }}))
	require.NoError(t, pool.Submit(funcJob{name: "panic", fn: func(context.Context) error { panic("boom") }}))
	require.NoError(t, pool.Submit(funcJob{name: "ok", fn: func(context.Context) error { close(done); return nil }}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died before the last job")
	}
}

func TestPoolSubmitRejectsWhenFullOrStopped(t *testing.T) {
	pool := worker.NewPool("test", 1, 1)
	// not started: the queue only drains once workers run
	noop := funcJob{name: "noop", fn: func(context.Context) error { return nil }}

	require.NoError(t, pool.Submit(noop))
	assert.Equal(t, 1, pool.QueueSize())
	assert.ErrorIs(t, pool.Submit(noop), worker.ErrQueueFull)

	pool.Stop()
	assert.ErrorIs(t, pool.Submit(noop), worker.ErrPoolStopped)
}
