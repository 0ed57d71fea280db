package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"feedsync/backend/internal/model"
	"feedsync/backend/internal/repository"
)

const (
	defaultArticleLimit = 50
	maxArticleLimit     = 200
)

type ArticleListParams struct {
	FeedID     int64
	UnreadOnly bool
	Limit      int
	Offset     int
}

// ReadState is the outcome of a read-flag change.
type ReadState struct {
	ArticleID   int64
	FeedID      int64
	Read        bool
	UnreadCount int
}

type ArticleService interface {
	List(ctx context.Context, params ArticleListParams) ([]model.Article, error)
	MarkRead(ctx context.Context, id int64) (ReadState, error)
	ToggleRead(ctx context.Context, id int64) (ReadState, error)
}

type articleService struct {
	articles   repository.ArticleRepository
	feeds      repository.FeedRepository
	reconciler Reconciler
}

func NewArticleService(
	articles repository.ArticleRepository,
	feeds repository.FeedRepository,
	reconciler Reconciler,
) ArticleService {
	return &articleService{
		articles:   articles,
		feeds:      feeds,
		reconciler: reconciler,
	}
}

// List returns the feed's articles newest first.
func (s *articleService) List(ctx context.Context, params ArticleListParams) ([]model.Article, error) {
	if _, err := s.feeds.GetByID(ctx, params.FeedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if params.Offset < 0 {
		return nil, ErrInvalid
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultArticleLimit
	}
	if limit > maxArticleLimit {
		limit = maxArticleLimit
	}

	return s.articles.ListByFeed(ctx, repository.ArticleListFilter{
		FeedID:     params.FeedID,
		UnreadOnly: params.UnreadOnly,
		Limit:      limit,
		Offset:     params.Offset,
	})
}

func (s *articleService) MarkRead(ctx context.Context, id int64) (ReadState, error) {
	if err := s.reconciler.MarkRead(ctx, id); err != nil {
		return ReadState{}, err
	}
	return s.readState(ctx, id, true)
}

// ToggleRead skips the unread count when the article does not exist.
func (s *articleService) ToggleRead(ctx context.Context, id int64) (ReadState, error) {
	read, err := s.reconciler.ToggleRead(ctx, id)
	if err != nil {
		return ReadState{}, err
	}
	return s.readState(ctx, id, read)
}

func (s *articleService) readState(ctx context.Context, id int64, read bool) (ReadState, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReadState{}, ErrNotFound
		}
		return ReadState{}, fmt.Errorf("get article: %w", err)
	}
	unread, err := s.reconciler.CountUnread(ctx, article.FeedID)
	if err != nil {
		return ReadState{}, fmt.Errorf("count unread: %w", err)
	}
	return ReadState{
		ArticleID:   id,
		FeedID:      article.FeedID,
		Read:        read,
		UnreadCount: unread,
	}, nil
}
