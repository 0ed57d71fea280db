// Package testutil provides SQLite-backed fixtures for repository and
// service tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"feedsync/backend/internal/db"
	"feedsync/backend/internal/model"
	"feedsync/backend/internal/snowflake"
)

// NewTestDB opens a migrated database in a temporary directory that is
// removed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// SeedFeed inserts feed and returns its id.
func SeedFeed(t *testing.T, database *sql.DB, feed model.Feed) int64 {
	t.Helper()
	if feed.ID == 0 {
		feed.ID = snowflake.NextID()
	}
	if feed.CreatedAt.IsZero() {
		feed.CreatedAt = time.Now().UTC()
	}
	_, err := database.Exec(
		`INSERT INTO feeds (id, url, title, created_at) VALUES (?, ?, ?, ?)`,
		feed.ID, feed.URL, feed.Title, stamp(feed.CreatedAt),
	)
	if err != nil {
		t.Fatalf("seed feed: %v", err)
	}
	return feed.ID
}

// SeedArticle inserts article and returns its id. Missing guid, title and
// timestamps are filled in.
func SeedArticle(t *testing.T, database *sql.DB, article model.Article) int64 {
	t.Helper()
	if article.ID == 0 {
		article.ID = snowflake.NextID()
	}
	if article.FeedGUID == "" {
		article.FeedGUID = "seed-" + strconv.FormatInt(article.ID, 10)
	}
	if article.Title == "" {
		article.Title = "seed"
	}
	now := time.Now().UTC()
	if article.PublishedAt.IsZero() {
		article.PublishedAt = now
	}
	if article.FetchedAt.IsZero() {
		article.FetchedAt = now
	}
	read := 0
	if article.Read {
		read = 1
	}
	_, err := database.Exec(
		`INSERT INTO articles (id, feed_id, feed_guid, title, summary, content, original_url, published_at, fetched_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.ID, article.FeedID, article.FeedGUID, article.Title, article.Summary, article.Content,
		article.OriginalURL,
		stamp(article.PublishedAt),
		stamp(article.FetchedAt),
		read,
	)
	if err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return article.ID
}

// stamp matches the repository's fixed-width timestamp encoding.
func stamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
