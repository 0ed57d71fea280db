package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"feedsync/backend/internal/logger"
	"feedsync/backend/internal/repository"
)

var ErrAlreadyRefreshing = errors.New("refresh already in progress")

// RefreshSummary counts the outcomes of one RefreshAll run.
type RefreshSummary struct {
	Feeds     int
	Refreshed int
	Failed    int
}

type RefreshService interface {
	RefreshAll(ctx context.Context) (RefreshSummary, error)
	IsRefreshing() bool
}

type refreshService struct {
	feeds        repository.FeedRepository
	feedService  FeedService
	concurrency  int
	limiter      *rate.Limiter
	mu           sync.Mutex
	isRefreshing bool
}

// NewRefreshService refreshes at most concurrency feeds at once and starts
// at most perSecond refreshes per second. perSecond <= 0 disables pacing.
func NewRefreshService(feeds repository.FeedRepository, feedService FeedService, concurrency int, perSecond float64) RefreshService {
	if concurrency < 1 {
		concurrency = 1
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &refreshService{
		feeds:       feeds,
		feedService: feedService,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// RefreshAll refreshes every feed. A failing feed is logged and counted but
// does not stop the others; only listing failures and cancellation are
// returned as errors.
func (s *refreshService) RefreshAll(ctx context.Context) (RefreshSummary, error) {
	s.mu.Lock()
	if s.isRefreshing {
		s.mu.Unlock()
		return RefreshSummary{}, ErrAlreadyRefreshing
	}
	s.isRefreshing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRefreshing = false
		s.mu.Unlock()
	}()

	feeds, err := s.feeds.List(ctx)
	if err != nil {
		return RefreshSummary{}, err
	}

	var (
		mu      sync.Mutex
		summary = RefreshSummary{Feeds: len(feeds)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, feed := range feeds {
		feed := feed // per-iteration copy; go directive is 1.21 (pre-1.22 loop semantics)
		if err := s.limiter.Wait(gctx); err != nil {
			break
		}
		g.Go(func() error {
			fctx := logger.WithAttrs(gctx, slog.Int64("feed_id", feed.ID))
			_, err := s.feedService.Refresh(fctx, feed.ID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				summary.Failed++
				logger.WarnContext(fctx, "feed refresh", "module", "service", "action", "update", "resource", "feed", "result", "failed", "title", feed.Title, "error", err)
				return nil
			}
			summary.Refreshed++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	logger.Info("feeds refreshed", "module", "service", "action", "update", "resource", "feed", "result", "ok", "feeds", summary.Feeds, "refreshed", summary.Refreshed, "failed", summary.Failed)
	return summary, nil
}

func (s *refreshService) IsRefreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRefreshing
}
