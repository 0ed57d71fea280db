package model

import "time"

// Article is one item of a feed document. FeedGUID is the reconciliation key
// and is unique across all feeds.
type Article struct {
	ID          int64
	FeedID      int64
	FeedGUID    string
	Title       string
	Summary     *string
	Content     *string
	OriginalURL string
	PublishedAt time.Time
	FetchedAt   time.Time
	Read        bool
}
