package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"feedsync/backend/internal/model"
	"feedsync/backend/internal/repository"
)

// ReconcileResult counts the rows a batch inserted and updated.
type ReconcileResult struct {
	Inserted int
	Updated  int
}

// ReconcileObserver receives the counts of every committed batch.
type ReconcileObserver interface {
	ObserveReconcile(inserted, updated int)
}

// Reconciler merges fetched articles into storage and owns the read flag.
type Reconciler interface {
	Reconcile(ctx context.Context, feedID int64, articles []model.Article) (ReconcileResult, error)
	CreateFeed(ctx context.Context, feed model.Feed, articles []model.Article) (model.Feed, ReconcileResult, error)
	MarkRead(ctx context.Context, articleID int64) error
	ToggleRead(ctx context.Context, articleID int64) (bool, error)
	CountUnread(ctx context.Context, feedID int64) (int, error)
}

type reconciler struct {
	tx       repository.Transactor
	articles repository.ArticleRepository
	observer ReconcileObserver
}

func NewReconciler(tx repository.Transactor, articles repository.ArticleRepository, observer ReconcileObserver) Reconciler {
	return &reconciler{tx: tx, articles: articles, observer: observer}
}

// Reconcile upserts the batch in one transaction. An empty batch touches
// nothing.
func (r *reconciler) Reconcile(ctx context.Context, feedID int64, articles []model.Article) (ReconcileResult, error) {
	if len(articles) == 0 {
		return ReconcileResult{}, nil
	}

	var result ReconcileResult
	err := r.tx.WithinTx(ctx, func(stores repository.Stores) error {
		var err error
		result, err = applyArticles(ctx, stores.Articles, feedID, articles)
		return err
	})
	if err != nil {
		return ReconcileResult{}, err
	}
	r.observe(result)
	return result, nil
}

// CreateFeed stores a new feed together with its first batch of articles.
// Either both are committed or neither is.
func (r *reconciler) CreateFeed(ctx context.Context, feed model.Feed, articles []model.Article) (model.Feed, ReconcileResult, error) {
	var created model.Feed
	var result ReconcileResult
	err := r.tx.WithinTx(ctx, func(stores repository.Stores) error {
		var err error
		created, err = stores.Feeds.Create(ctx, feed)
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			return nil
		}
		result, err = applyArticles(ctx, stores.Articles, created.ID, articles)
		return err
	})
	if err != nil {
		return model.Feed{}, ReconcileResult{}, err
	}
	r.observe(result)
	return created, result, nil
}

func (r *reconciler) observe(result ReconcileResult) {
	if r.observer != nil {
		r.observer.ObserveReconcile(result.Inserted, result.Updated)
	}
}

// MarkRead is idempotent. Unknown ids yield ErrNotFound.
func (r *reconciler) MarkRead(ctx context.Context, articleID int64) error {
	if err := r.articles.MarkRead(ctx, articleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ToggleRead returns the new read flag, or ErrNotFound for unknown ids.
func (r *reconciler) ToggleRead(ctx context.Context, articleID int64) (bool, error) {
	read, err := r.articles.ToggleRead(ctx, articleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("toggle read: %w", err)
	}
	return read, nil
}

func (r *reconciler) CountUnread(ctx context.Context, feedID int64) (int, error) {
	return r.articles.CountUnread(ctx, feedID)
}

// applyArticles upserts articles one at a time so that each lookup sees the
// writes made earlier in the same batch. Updates keep the stored read flag
// and owning feed.
func applyArticles(ctx context.Context, repo repository.ArticleRepository, feedID int64, articles []model.Article) (ReconcileResult, error) {
	var result ReconcileResult
	for _, article := range articles {
		article.FeedID = feedID

		existing, err := repo.FindByGUID(ctx, article.FeedGUID)
		if err != nil {
			return ReconcileResult{}, fmt.Errorf("find article %q: %w", article.FeedGUID, err)
		}

		if existing == nil {
			article.Read = false
			if _, err := repo.Create(ctx, article); err != nil {
				return ReconcileResult{}, err
			}
			result.Inserted++
			continue
		}

		article.ID = existing.ID
		if err := repo.UpdateContent(ctx, article); err != nil {
			return ReconcileResult{}, err
		}
		result.Updated++
	}
	return result, nil
}
