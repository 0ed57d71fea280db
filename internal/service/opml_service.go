package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"feedsync/backend/internal/logger"
	"feedsync/backend/internal/opml"
	"feedsync/backend/internal/repository"
)

const opmlTitle = "feedsync subscriptions"

type OPMLService interface {
	Export(ctx context.Context) ([]byte, error)
}

type opmlService struct {
	feeds repository.FeedRepository
	now   func() time.Time
}

func NewOPMLService(feeds repository.FeedRepository) OPMLService {
	return &opmlService{
		feeds: feeds,
		now:   time.Now,
	}
}

// Export returns ErrNoSubscriptions when there is nothing to export.
func (s *opmlService) Export(ctx context.Context) ([]byte, error) {
	feeds, err := s.feeds.List(ctx)
	if err != nil {
		logger.Error("opml export list feeds failed", "module", "service", "action", "export", "resource", "opml", "result", "failed", "error", err)
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	if len(feeds) == 0 {
		return nil, ErrNoSubscriptions
	}

	outlines := make([]opml.Outline, 0, len(feeds))
	for _, feed := range feeds {
		outlines = append(outlines, opml.Outline{
			Type:   "rss",
			Text:   feed.Title,
			XMLURL: feed.URL,
		})
	}

	doc := opml.Document{
		Version: opml.Version,
		Head: opml.Head{
			Title:       opmlTitle,
			DateCreated: s.now().UTC().Format(http.TimeFormat),
		},
		Body: opml.Body{Outlines: outlines},
	}

	payload, err := opml.Encode(doc)
	if err != nil {
		logger.Error("opml export encode failed", "module", "service", "action", "export", "resource", "opml", "result", "failed", "error", err)
		return nil, err
	}
	logger.Info("opml export completed", "module", "service", "action", "export", "resource", "opml", "result", "ok", "feeds", len(feeds))
	return payload, nil
}
