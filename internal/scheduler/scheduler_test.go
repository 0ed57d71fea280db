package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"feedsync/backend/internal/service"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) RefreshAll(ctx context.Context) (service.RefreshSummary, error) {
	r.calls.Add(1)
	return service.RefreshSummary{}, r.err
}

func (r *countingRefresher) IsRefreshing() bool { return false }

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	refresher := &countingRefresher{}
	s := New(refresher, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return refresher.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_ErrorsDoNotStopLoop(t *testing.T) {
	refresher := &countingRefresher{err: service.ErrAlreadyRefreshing}
	s := New(refresher, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	require.Eventually(t, func() bool { return refresher.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}
