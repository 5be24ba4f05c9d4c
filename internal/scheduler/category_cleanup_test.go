package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingQueue struct {
	calls atomic.Int32
	err   error
}

func (q *countingQueue) EnqueueCategoryCleanup() (string, error) {
	q.calls.Add(1)
	return "task-1", q.err
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 3 * * *"))
	assert.NoError(t, ValidateSchedule("*/5 * * * *"))
	assert.Error(t, ValidateSchedule("not a schedule"))
	assert.Error(t, ValidateSchedule("0 0 3 * * *"), "seconds field is not accepted")
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewCategoryCleanupScheduler(&countingQueue{}, "bogus")
	err := s.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestStart_NilQueueIsNoop(t *testing.T) {
	s := NewCategoryCleanupScheduler(nil, "0 3 * * *")
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestStartStop(t *testing.T) {
	s := NewCategoryCleanupScheduler(&countingQueue{}, "0 3 * * *")
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.NextRun()
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 3, next.Hour())

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())

	// Stopping twice is harmless.
	s.Stop()
}

func TestStop_OnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewCategoryCleanupScheduler(&countingQueue{}, "0 3 * * *")
	require.NoError(t, s.Start(ctx))

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestRun_Enqueues(t *testing.T) {
	q := &countingQueue{}
	s := NewCategoryCleanupScheduler(q, "0 3 * * *")
	s.run()
	assert.Equal(t, int32(1), q.calls.Load())

	q.err = errors.New("queue closed")
	s.run()
	assert.Equal(t, int32(2), q.calls.Load())
}
