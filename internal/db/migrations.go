package db

import (
	"database/sql"
	"fmt"
)

// Base schema - uses Snowflake IDs (no AUTOINCREMENT)
const baseSchema = `
CREATE TABLE IF NOT EXISTS feeds (
  id INTEGER PRIMARY KEY,
  url TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  created_at TEXT NOT NULL,
  last_refreshed_at TEXT
);

CREATE TABLE IF NOT EXISTS articles (
  id INTEGER PRIMARY KEY,
  feed_id INTEGER NOT NULL,
  feed_guid TEXT NOT NULL,
  title TEXT NOT NULL,
  summary TEXT,
  content TEXT,
  original_url TEXT NOT NULL DEFAULT '',
  published_at TEXT NOT NULL,
  fetched_at TEXT NOT NULL,
  is_read INTEGER NOT NULL DEFAULT 0,
  FOREIGN KEY (feed_id) REFERENCES feeds(id) ON DELETE CASCADE
);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	// feed_guid is the reconciliation key and is unique across all feeds,
	// not per feed.
	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_feed_guid ON articles(feed_guid)`); err != nil {
		return fmt.Errorf("create idx_articles_feed_guid: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_articles_feed_read ON articles(feed_id, is_read)`); err != nil {
		return fmt.Errorf("create idx_articles_feed_read: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_articles_feed_published ON articles(feed_id, published_at)`); err != nil {
		return fmt.Errorf("create idx_articles_feed_published: %w", err)
	}

	return nil
}
