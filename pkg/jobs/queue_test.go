package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueueProcessesJobs(t *testing.T) {
	var handled atomic.Int32
	q := NewQueue("test", func(_ context.Context, job Job) error {
		handled.Add(1)
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(Job{ID: "job", Type: "registration.reviewed"}))
	}
	require.Eventually(t, func() bool { return handled.Load() == 5 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(5), q.Stats().Processed)
}

func TestQueueRetriesThenDrops(t *testing.T) {
	var attempts atomic.Int32
	q := NewQueue("retry", func(_ context.Context, job Job) error {
		attempts.Add(1)
		return errors.New("broker down")
	}, QueueConfig{MaxRetries: 2, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1"}))
	require.Eventually(t, func() bool { return q.Stats().Dropped == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, uint64(2), q.Stats().Retried)
}

func TestQueueRejectsWhenStopped(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.ErrorIs(t, q.Enqueue(Job{ID: "x"}), ErrQueueClosed)

	q.Start(context.Background())
	q.Stop()
	assert.ErrorIs(t, q.Enqueue(Job{ID: "x"}), ErrQueueClosed)
}
