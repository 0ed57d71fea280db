package scheduler

import (
	"context"
	"errors"
	"time"

	"feedsync/backend/internal/logger"
	"feedsync/backend/internal/service"
)

// Scheduler refreshes every feed on a fixed interval.
type Scheduler struct {
	refreshService service.RefreshService
	interval       time.Duration
}

func New(refreshService service.RefreshService, interval time.Duration) *Scheduler {
	return &Scheduler{
		refreshService: refreshService,
		interval:       interval,
	}
}

// Run refreshes immediately and then once per interval until ctx is done.
// It always returns nil so that it can run under an errgroup next to the
// HTTP server without tearing it down.
func (s *Scheduler) Run(ctx context.Context) error {
	logger.Info("scheduler started", "module", "scheduler", "action", "refresh", "resource", "feed", "result", "ok", "interval_ms", s.interval.Milliseconds())

	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh(ctx)
		case <-ctx.Done():
			logger.Info("scheduler stopped", "module", "scheduler", "action", "refresh", "resource", "feed", "result", "ok")
			return nil
		}
	}
}

func (s *Scheduler) refresh(parent context.Context) {
	// a run may not outlast the interval
	ctx, cancel := context.WithTimeout(parent, s.interval)
	defer cancel()

	logger.Info("scheduled feed refresh started", "module", "scheduler", "action", "refresh", "resource", "feed", "result", "ok")
	summary, err := s.refreshService.RefreshAll(ctx)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyRefreshing):
			logger.Warn("scheduled refresh skipped", "module", "scheduler", "action", "refresh", "resource", "feed", "result", "skipped")
		case ctx.Err() != nil:
			logger.Warn("scheduled refresh cancelled", "module", "scheduler", "action", "refresh", "resource", "feed", "result", "cancelled")
		default:
			logger.Error("scheduled refresh failed", "module", "scheduler", "action", "refresh", "resource", "feed", "result", "failed", "error", err)
		}
		return
	}
	logger.Info("scheduled feed refresh completed", "module", "scheduler", "action", "refresh", "resource", "feed", "result", "ok", "feeds", summary.Feeds, "refreshed", summary.Refreshed, "failed", summary.Failed)
}
