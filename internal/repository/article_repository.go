package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"feedsync/backend/internal/model"
	"feedsync/backend/internal/snowflake"
)

type ArticleListFilter struct {
	FeedID     int64
	UnreadOnly bool
	Limit      int
	Offset     int
}

type UnreadCount struct {
	FeedID int64
	Count  int
}

type ArticleRepository interface {
	GetByID(ctx context.Context, id int64) (model.Article, error)
	FindByGUID(ctx context.Context, guid string) (*model.Article, error)
	ListByFeed(ctx context.Context, filter ArticleListFilter) ([]model.Article, error)
	Create(ctx context.Context, article model.Article) (model.Article, error)
	UpdateContent(ctx context.Context, article model.Article) error
	MarkRead(ctx context.Context, id int64) error
	ToggleRead(ctx context.Context, id int64) (bool, error)
	CountUnread(ctx context.Context, feedID int64) (int, error)
	CountUnreadByFeed(ctx context.Context) ([]UnreadCount, error)
	DeleteByFeed(ctx context.Context, feedID int64) (int64, error)
}

type articleRepository struct {
	db dbtx
}

func NewArticleRepository(db dbtx) ArticleRepository {
	return &articleRepository{db: db}
}

var articleColumns = []string{
	"id", "feed_id", "feed_guid", "title", "summary", "content",
	"original_url", "published_at", "fetched_at", "is_read",
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (model.Article, error) {
	query, args, err := sq.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return model.Article{}, fmt.Errorf("build article query: %w", err)
	}
	return scanArticle(r.db.QueryRowContext(ctx, query, args...))
}

func (r *articleRepository) FindByGUID(ctx context.Context, guid string) (*model.Article, error) {
	query, args, err := sq.Select(articleColumns...).From("articles").Where(sq.Eq{"feed_guid": guid}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article query: %w", err)
	}
	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return &article, nil
}

// ListByFeed returns the feed's articles newest first.
func (r *articleRepository) ListByFeed(ctx context.Context, filter ArticleListFilter) ([]model.Article, error) {
	q := sq.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"feed_id": filter.FeedID}).
		OrderBy("published_at DESC", "id DESC")
	if filter.UnreadOnly {
		q = q.Where(sq.Eq{"is_read": 0})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article list query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, nil
}

func (r *articleRepository) Create(ctx context.Context, article model.Article) (model.Article, error) {
	article.ID = snowflake.NextID()
	query, args, err := sq.Insert("articles").
		Columns(articleColumns...).
		Values(
			article.ID,
			article.FeedID,
			article.FeedGUID,
			article.Title,
			nullableString(article.Summary),
			nullableString(article.Content),
			article.OriginalURL,
			formatTime(article.PublishedAt),
			formatTime(article.FetchedAt),
			boolToInt(article.Read),
		).
		ToSql()
	if err != nil {
		return model.Article{}, fmt.Errorf("build article insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return model.Article{}, fmt.Errorf("create article: %w", err)
	}
	return article, nil
}

// UpdateContent overwrites the feed-derived fields of the article. The read
// flag and the owning feed are left untouched.
func (r *articleRepository) UpdateContent(ctx context.Context, article model.Article) error {
	query, args, err := sq.Update("articles").
		SetMap(map[string]any{
			"title":        article.Title,
			"summary":      nullableString(article.Summary),
			"content":      nullableString(article.Content),
			"original_url": article.OriginalURL,
			"published_at": formatTime(article.PublishedAt),
			"fetched_at":   formatTime(article.FetchedAt),
		}).
		Where(sq.Eq{"id": article.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build article update: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// MarkRead returns sql.ErrNoRows when no article has the given id.
func (r *articleRepository) MarkRead(ctx context.Context, id int64) error {
	query, args, err := sq.Update("articles").Set("is_read", 1).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build mark read: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark article read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark article read: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ToggleRead flips the read flag and returns the new value, or sql.ErrNoRows
// when no article has the given id.
func (r *articleRepository) ToggleRead(ctx context.Context, id int64) (bool, error) {
	query, args, err := sq.Update("articles").
		Set("is_read", sq.Expr("1 - is_read")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING is_read").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build toggle read: %w", err)
	}
	var readInt int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&readInt); err != nil {
		return false, err
	}
	return readInt == 1, nil
}

func (r *articleRepository) CountUnread(ctx context.Context, feedID int64) (int, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("articles").
		Where(sq.Eq{"feed_id": feedID, "is_read": 0}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build unread count: %w", err)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func (r *articleRepository) CountUnreadByFeed(ctx context.Context) ([]UnreadCount, error) {
	query, args, err := sq.Select("feed_id", "COUNT(*)").
		From("articles").
		Where(sq.Eq{"is_read": 0}).
		GroupBy("feed_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build unread count: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count unread by feed: %w", err)
	}
	defer rows.Close()

	var counts []UnreadCount
	for rows.Next() {
		var uc UnreadCount
		if err := rows.Scan(&uc.FeedID, &uc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *articleRepository) DeleteByFeed(ctx context.Context, feedID int64) (int64, error) {
	query, args, err := sq.Delete("articles").Where(sq.Eq{"feed_id": feedID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build article delete: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete articles: %w", err)
	}
	return result.RowsAffected()
}

func scanArticle(scanner interface {
	Scan(dest ...any) error
}) (model.Article, error) {
	var a model.Article
	var summary, content sql.NullString
	var publishedAt, fetchedAt string
	var readInt int

	if err := scanner.Scan(
		&a.ID, &a.FeedID, &a.FeedGUID, &a.Title, &summary, &content,
		&a.OriginalURL, &publishedAt, &fetchedAt, &readInt,
	); err != nil {
		return model.Article{}, err
	}

	if summary.Valid {
		a.Summary = &summary.String
	}
	if content.Valid {
		a.Content = &content.String
	}
	a.Read = readInt == 1

	var err error
	if a.PublishedAt, err = parseTime(publishedAt); err != nil {
		return model.Article{}, fmt.Errorf("parse article published_at: %w", err)
	}
	if a.FetchedAt, err = parseTime(fetchedAt); err != nil {
		return model.Article{}, fmt.Errorf("parse article fetched_at: %w", err)
	}
	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
