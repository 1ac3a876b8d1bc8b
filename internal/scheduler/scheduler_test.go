package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduleNextRun(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("daily before target time", func(t *testing.T) {
		next := DailyAt(14, 30).nextRun(now)
		assert.Equal(t, time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC), next)
	})

	t.Run("daily after target time rolls to tomorrow", func(t *testing.T) {
		next := DailyAt(9, 0).nextRun(now)
		assert.Equal(t, time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC), next)
	})

	t.Run("interval", func(t *testing.T) {
		next := Every(6 * time.Hour).nextRun(now)
		assert.Equal(t, now.Add(6*time.Hour), next)
	})
}

func TestRunNow(t *testing.T) {
	s := New(zap.NewNop())

	var calls int32
	s.Register(&Job{
		Name:     "expire-subscriptions",
		Schedule: Every(24 * time.Hour),
		Handler: func(now time.Time) error {
			atomic.AddInt32(&calls, 1)
			return nil
		},
	})

	require.NoError(t, s.RunNow("expire-subscriptions"))
	require.NoError(t, s.RunNow("expire-subscriptions"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	statuses := s.Jobs()
	require.Len(t, statuses, 1)
	assert.Equal(t, 2, statuses[0].Runs)
	assert.Empty(t, statuses[0].LastErr)
}

func TestRunNowPropagatesHandlerError(t *testing.T) {
	s := New(zap.NewNop())
	boom := errors.New("sweep failed")

	s.Register(&Job{
		Name:     "notify-expiring",
		Schedule: Every(24 * time.Hour),
		Handler:  func(now time.Time) error { return boom },
	})

	err := s.RunNow("notify-expiring")
	require.Error(t, err)
	assert.Equal(t, boom, err)

	statuses := s.Jobs()
	require.Len(t, statuses, 1)
	assert.Equal(t, "sweep failed", statuses[0].LastErr)
}

func TestRunNowUnknownJob(t *testing.T) {
	s := New(zap.NewNop())
	assert.Error(t, s.RunNow("no-such-job"))
}

func TestStartStop(t *testing.T) {
	s := New(zap.NewNop())
	s.tickRate = 10 * time.Millisecond

	var calls int32
	s.Register(&Job{
		Name:     "fast-job",
		Schedule: Every(time.Millisecond),
		Handler: func(now time.Time) error {
			atomic.AddInt32(&calls, 1)
			return nil
		},
	})

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}
