package service_test

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"testing"

	"feedsync/backend/internal/ingest"
	"feedsync/backend/internal/model"
	"feedsync/backend/internal/repository"
	"feedsync/backend/internal/repository/testutil"
	"feedsync/backend/internal/service"
)

// passthroughTx runs fn against fixed stores, with no real transaction.
type passthroughTx struct {
	stores repository.Stores
	calls  int
}

func (p *passthroughTx) WithinTx(ctx context.Context, fn func(repository.Stores) error) error {
	p.calls++
	return fn(p.stores)
}

type fetcherFunc func(ctx context.Context, feedURL string) (ingest.Document, error)

func (f fetcherFunc) Fetch(ctx context.Context, feedURL string) (ingest.Document, error) {
	return f(ctx, feedURL)
}

// scriptedFetcher returns documents queued per URL, repeating the last one.
type scriptedFetcher struct {
	mu    sync.Mutex
	docs  map[string][]ingest.Document
	err   error
	calls int
}

func (f *scriptedFetcher) Fetch(ctx context.Context, feedURL string) (ingest.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return ingest.Document{}, f.err
	}
	queue := f.docs[feedURL]
	if len(queue) == 0 {
		return ingest.Document{}, &ingest.Error{Kind: ingest.KindHTTPError}
	}
	doc := queue[0]
	if len(queue) > 1 {
		f.docs[feedURL] = queue[1:]
	}
	return doc, nil
}

type allowAll struct{}

func (allowAll) Check(context.Context, string) (bool, error) { return true, nil }

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type stack struct {
	db         *sql.DB
	feeds      repository.FeedRepository
	articles   repository.ArticleRepository
	reconciler service.Reconciler
	feedSvc    service.FeedService
	articleSvc service.ArticleService
}

func newStack(t *testing.T, fetcher service.FeedFetcher) *stack {
	t.Helper()
	db := testutil.NewTestDB(t)
	feeds := repository.NewFeedRepository(db)
	articles := repository.NewArticleRepository(db)
	tx := repository.NewTransactor(db)
	reconciler := service.NewReconciler(tx, articles, nil)
	return &stack{
		db:         db,
		feeds:      feeds,
		articles:   articles,
		reconciler: reconciler,
		feedSvc:    service.NewFeedService(feeds, articles, tx, reconciler, fetcher),
		articleSvc: service.NewArticleService(articles, feeds, reconciler),
	}
}

func strPtr(s string) *string {
	return &s
}

func draft(guid, title string) model.Article {
	return model.Article{
		FeedGUID:    guid,
		Title:       title,
		Summary:     strPtr("<p>" + title + "</p>"),
		OriginalURL: "https://example.com/" + guid,
	}
}
