package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"feedsync/backend/internal/ingest"
	"feedsync/backend/internal/logger"
	"feedsync/backend/internal/model"
	"feedsync/backend/internal/repository"
)

// FeedFetcher downloads and parses a feed. *ingest.Fetcher satisfies it.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) (ingest.Document, error)
}

type FeedService interface {
	Subscribe(ctx context.Context, feedURL string) (FeedSummary, error)
	Refresh(ctx context.Context, feedID int64) (RefreshResult, error)
	List(ctx context.Context) ([]FeedWithUnread, error)
	Delete(ctx context.Context, id int64) error
}

// FeedSummary describes a newly subscribed feed.
type FeedSummary struct {
	ID              int64
	URL             string
	Title           string
	LastRefreshedAt *time.Time
	ArticleCount    int
}

type FeedWithUnread struct {
	model.Feed
	UnreadCount int
}

type RefreshResult struct {
	FeedID          int64
	UnreadCount     int
	LastRefreshedAt time.Time
	Inserted        int
	Updated         int
}

type feedService struct {
	feeds      repository.FeedRepository
	articles   repository.ArticleRepository
	tx         repository.Transactor
	reconciler Reconciler
	fetcher    FeedFetcher
	now        func() time.Time
}

func NewFeedService(
	feeds repository.FeedRepository,
	articles repository.ArticleRepository,
	tx repository.Transactor,
	reconciler Reconciler,
	fetcher FeedFetcher,
) FeedService {
	return &feedService{
		feeds:      feeds,
		articles:   articles,
		tx:         tx,
		reconciler: reconciler,
		fetcher:    fetcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *feedService) Subscribe(ctx context.Context, feedURL string) (FeedSummary, error) {
	trimmedURL := strings.TrimSpace(feedURL)
	if trimmedURL == "" {
		return FeedSummary{}, ErrInvalid
	}
	ctx = logger.WithAttrs(ctx, slog.String("url", trimmedURL))

	if existing, err := s.feeds.FindByURL(ctx, trimmedURL); err != nil {
		return FeedSummary{}, fmt.Errorf("check feed url: %w", err)
	} else if existing != nil {
		return FeedSummary{}, &FeedConflictError{ExistingFeed: *existing}
	}

	doc, err := s.fetcher.Fetch(ctx, trimmedURL)
	if err != nil {
		return FeedSummary{}, fetchFailure(err)
	}

	// the body is in hand; finish even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	now := s.now()
	feed := model.Feed{
		URL:             trimmedURL,
		Title:           doc.Title,
		CreatedAt:       now,
		LastRefreshedAt: &now,
	}
	created, result, err := s.reconciler.CreateFeed(ctx, feed, doc.Articles)
	if errors.Is(err, repository.ErrDuplicateURL) {
		// subscribed concurrently while this fetch was in flight
		existing, findErr := s.feeds.FindByURL(ctx, trimmedURL)
		if findErr != nil || existing == nil {
			return FeedSummary{}, fmt.Errorf("create feed: %w: %w", ErrConflict, err)
		}
		logger.InfoContext(ctx, "feed subscribe", "module", "service", "action", "create", "resource", "feed", "result", "conflict", "feed_id", existing.ID)
		return FeedSummary{}, &FeedConflictError{ExistingFeed: *existing}
	}
	if err != nil {
		logger.ErrorContext(ctx, "feed subscribe", "module", "service", "action", "create", "resource", "feed", "result", "failed", "error", err)
		return FeedSummary{}, fmt.Errorf("create feed: %w", err)
	}

	logger.InfoContext(ctx, "feed subscribe", "module", "service", "action", "create", "resource", "feed", "result", "ok", "feed_id", created.ID, "inserted", result.Inserted, "updated", result.Updated)
	return FeedSummary{
		ID:              created.ID,
		URL:             created.URL,
		Title:           created.Title,
		LastRefreshedAt: created.LastRefreshedAt,
		ArticleCount:    len(doc.Articles),
	}, nil
}

func (s *feedService) Refresh(ctx context.Context, feedID int64) (RefreshResult, error) {
	feed, err := s.feeds.GetByID(ctx, feedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RefreshResult{}, ErrNotFound
		}
		return RefreshResult{}, fmt.Errorf("get feed: %w", err)
	}
	ctx = logger.WithAttrs(ctx, slog.Int64("feed_id", feed.ID), slog.String("url", feed.URL))

	doc, err := s.fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		return RefreshResult{}, fetchFailure(err)
	}

	ctx = context.WithoutCancel(ctx)

	result, err := s.reconciler.Reconcile(ctx, feed.ID, doc.Articles)
	if err != nil {
		logger.ErrorContext(ctx, "feed refresh", "module", "service", "action", "update", "resource", "feed", "result", "failed", "error", err)
		return RefreshResult{}, fmt.Errorf("reconcile articles: %w", err)
	}

	refreshedAt := s.now()
	if err := s.feeds.MarkRefreshed(ctx, feed.ID, doc.Title, refreshedAt); err != nil {
		return RefreshResult{}, err
	}

	unread, err := s.reconciler.CountUnread(ctx, feed.ID)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("count unread: %w", err)
	}

	if result.Inserted > 0 || result.Updated > 0 {
		logger.InfoContext(ctx, "feed refresh", "module", "service", "action", "update", "resource", "feed", "result", "ok", "inserted", result.Inserted, "updated", result.Updated)
	}
	return RefreshResult{
		FeedID:          feed.ID,
		UnreadCount:     unread,
		LastRefreshedAt: refreshedAt,
		Inserted:        result.Inserted,
		Updated:         result.Updated,
	}, nil
}

func (s *feedService) List(ctx context.Context) ([]FeedWithUnread, error) {
	feeds, err := s.feeds.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.articles.CountUnreadByFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}

	unread := make(map[int64]int, len(counts))
	for _, uc := range counts {
		unread[uc.FeedID] = uc.Count
	}

	result := make([]FeedWithUnread, 0, len(feeds))
	for _, feed := range feeds {
		result = append(result, FeedWithUnread{Feed: feed, UnreadCount: unread[feed.ID]})
	}
	return result, nil
}

func (s *feedService) Delete(ctx context.Context, id int64) error {
	if _, err := s.feeds.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get feed: %w", err)
	}

	var removed int64
	err := s.tx.WithinTx(ctx, func(stores repository.Stores) error {
		var err error
		if removed, err = stores.Articles.DeleteByFeed(ctx, id); err != nil {
			return err
		}
		return stores.Feeds.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.Info("feed deleted", "module", "service", "action", "delete", "resource", "feed", "result", "ok", "feed_id", id, "articles", removed)
	return nil
}
