package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/config"
	"shareit/internal/models"
)

type fakeStore struct {
	entries []*models.ScheduleEntry
	err     error
	calls   atomic.Int32
}

func (s *fakeStore) GetScheduleEntries(_ context.Context, _, _ time.Time) ([]*models.ScheduleEntry, error) {
	s.calls.Add(1)
	return s.entries, s.err
}

type fakeWriter struct {
	err   error
	calls atomic.Int32
	last  []*models.ScheduleEntry
}

func (w *fakeWriter) WriteSchedule(entries []*models.ScheduleEntry, _, _ time.Time) (string, error) {
	w.calls.Add(1)
	w.last = entries
	return "schedule.xlsx", w.err
}

func newTestWorker(store *fakeStore, writer *fakeWriter, retry RetryPolicy) *ReportWorker {
	logger := zerolog.Nop()
	cfg := config.ReportsConfig{DaysBefore: 7, DaysAfter: 30}
	w := NewReportWorker(store, writer, nil, cfg, &logger)
	if retry != (RetryPolicy{}) {
		w.retryPolicy = retry
	}
	return w
}

func TestRebuildSuccess(t *testing.T) {
	store := &fakeStore{entries: []*models.ScheduleEntry{{BookingID: 1, ItemName: "Drill"}}}
	writer := &fakeWriter{}
	w := newTestWorker(store, writer, RetryPolicy{})

	require.NoError(t, w.rebuild(context.Background()))
	assert.EqualValues(t, 1, writer.calls.Load())
	require.Len(t, writer.last, 1)
	assert.Equal(t, "Drill", writer.last[0].ItemName)
}

func TestRebuildWithRetry_GivesUp(t *testing.T) {
	store := &fakeStore{err: errors.New("db closed")}
	writer := &fakeWriter{}
	w := newTestWorker(store, writer, RetryPolicy{MaxRetries: 2, InitialDelay: time.Millisecond})

	w.rebuildWithRetry(context.Background())

	assert.EqualValues(t, 2, store.calls.Load())
	assert.EqualValues(t, 0, writer.calls.Load())
}

func TestEnqueueRefresh_CollapsesWhenFull(t *testing.T) {
	store := &fakeStore{}
	writer := &fakeWriter{}
	w := newTestWorker(store, writer, RetryPolicy{})
	ctx := context.Background()

	for i := 0; i < models.ReportQueueSize*2; i++ {
		require.NoError(t, w.EnqueueRefresh(ctx))
	}

	// Queue holds at most its capacity, the rest collapsed
	assert.True(t, w.tryLocalQueue())
}

func TestStartProcessesQueuedRefresh(t *testing.T) {
	store := &fakeStore{}
	writer := &fakeWriter{}
	w := newTestWorker(store, writer, RetryPolicy{MaxRetries: 1})
	w.pollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.EnqueueRefresh(ctx))

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return writer.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	// Clamped to MaxDelay
	assert.Equal(t, 5*time.Second, policy.NextDelay(4))
	// Attempt below 1 treated as 1
	assert.Equal(t, time.Second, policy.NextDelay(0))
}

func TestPolicyFromConfig(t *testing.T) {
	policy := PolicyFromConfig(config.ReportsConfig{
		MaxRetries:    3,
		RetryDelay:    "500ms",
		RetryMaxDelay: "10s",
	})
	assert.Equal(t, 3, policy.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, policy.InitialDelay)
	assert.Equal(t, 10*time.Second, policy.MaxDelay)

	// Empty or broken values fall back to defaults
	policy = PolicyFromConfig(config.ReportsConfig{RetryDelay: "soon"})
	assert.Equal(t, 5, policy.MaxRetries)
	assert.Equal(t, 2*time.Second, policy.InitialDelay)
	assert.Equal(t, time.Minute, policy.MaxDelay)
}
