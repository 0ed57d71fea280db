package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"feedsync/backend/internal/model"
	"feedsync/backend/internal/snowflake"
)

// ErrDuplicateURL is returned by Create when a feed with the same URL is
// already stored.
var ErrDuplicateURL = errors.New("feed url already exists")

type FeedRepository interface {
	Create(ctx context.Context, feed model.Feed) (model.Feed, error)
	GetByID(ctx context.Context, id int64) (model.Feed, error)
	FindByURL(ctx context.Context, url string) (*model.Feed, error)
	List(ctx context.Context) ([]model.Feed, error)
	MarkRefreshed(ctx context.Context, id int64, title string, refreshedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

type feedRepository struct {
	db dbtx
}

func NewFeedRepository(db dbtx) FeedRepository {
	return &feedRepository{db: db}
}

var feedColumns = []string{"id", "url", "title", "created_at", "last_refreshed_at"}

func (r *feedRepository) Create(ctx context.Context, feed model.Feed) (model.Feed, error) {
	feed.ID = snowflake.NextID()
	if feed.CreatedAt.IsZero() {
		feed.CreatedAt = time.Now().UTC()
	}
	query, args, err := sq.Insert("feeds").
		Columns(feedColumns...).
		Values(feed.ID, feed.URL, feed.Title, formatTime(feed.CreatedAt), nullableTime(feed.LastRefreshedAt)).
		ToSql()
	if err != nil {
		return model.Feed{}, fmt.Errorf("build feed insert: %w", err)
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return model.Feed{}, fmt.Errorf("create feed %s: %w", feed.URL, ErrDuplicateURL)
	}
	if err != nil {
		return model.Feed{}, fmt.Errorf("create feed: %w", err)
	}
	return feed, nil
}

func (r *feedRepository) GetByID(ctx context.Context, id int64) (model.Feed, error) {
	query, args, err := sq.Select(feedColumns...).From("feeds").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return model.Feed{}, fmt.Errorf("build feed query: %w", err)
	}
	return scanFeed(r.db.QueryRowContext(ctx, query, args...))
}

func (r *feedRepository) FindByURL(ctx context.Context, url string) (*model.Feed, error) {
	query, args, err := sq.Select(feedColumns...).From("feeds").Where(sq.Eq{"url": url}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build feed query: %w", err)
	}
	feed, err := scanFeed(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find feed: %w", err)
	}
	return &feed, nil
}

func (r *feedRepository) List(ctx context.Context) ([]model.Feed, error) {
	query, args, err := sq.Select(feedColumns...).From("feeds").OrderBy("title", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build feed list query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	defer rows.Close()

	var feeds []model.Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feeds: %w", err)
	}

	return feeds, nil
}

func (r *feedRepository) MarkRefreshed(ctx context.Context, id int64, title string, refreshedAt time.Time) error {
	query, args, err := sq.Update("feeds").
		Set("title", title).
		Set("last_refreshed_at", formatTime(refreshedAt)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build feed update: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark feed refreshed: %w", err)
	}
	return nil
}

func (r *feedRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("feeds").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build feed delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	sqliteErr := &sqlite.Error{}
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func scanFeed(scanner interface {
	Scan(dest ...any) error
}) (model.Feed, error) {
	var feed model.Feed
	var createdAt string
	var lastRefreshedAt sql.NullString
	if err := scanner.Scan(
		&feed.ID,
		&feed.URL,
		&feed.Title,
		&createdAt,
		&lastRefreshedAt,
	); err != nil {
		return model.Feed{}, err
	}
	var err error
	feed.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.Feed{}, fmt.Errorf("parse feed created_at: %w", err)
	}
	if lastRefreshedAt.Valid {
		t, err := parseTime(lastRefreshedAt.String)
		if err != nil {
			return model.Feed{}, fmt.Errorf("parse feed last_refreshed_at: %w", err)
		}
		feed.LastRefreshedAt = &t
	}
	return feed, nil
}
