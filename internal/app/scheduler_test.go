package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingReminders struct {
	calls atomic.Int32
	lead  atomic.Int64
	err   error
}

func (c *countingReminders) SendReminders(ctx context.Context, lead time.Duration) (int, error) {
	c.calls.Add(1)
	c.lead.Store(int64(lead))
	return 1, c.err
}

func TestSchedulerRunsUntilCancelled(t *testing.T) {
	reminders := &countingReminders{}
	s := NewScheduler(reminders, time.Hour, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return reminders.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}

	assert.Equal(t, int64(time.Hour), reminders.lead.Load())
}

func TestSchedulerSurvivesErrors(t *testing.T) {
	reminders := &countingReminders{err: errors.New("db down")}
	s := NewScheduler(reminders, time.Hour, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	require.Eventually(t, func() bool { return reminders.calls.Load() >= 2 }, time.Second, time.Millisecond)
}
