package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"feedsync/backend/internal/logger"
)

// Outcome labels reported to a FetchObserver besides the Kind names.
const (
	OutcomeOK       = "ok"
	OutcomeCanceled = "canceled"
)

// FetchObserver receives the outcome and duration of every fetch.
type FetchObserver interface {
	ObserveFetch(outcome string, elapsed time.Duration)
}

// Fetcher downloads and parses a feed.
type Fetcher struct {
	transport *Transport
	parser    *Parser
	observer  FetchObserver
}

func NewFetcher(transport *Transport, parser *Parser, observer FetchObserver) *Fetcher {
	return &Fetcher{transport: transport, parser: parser, observer: observer}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Document, error) {
	start := time.Now()
	ctx = logger.WithAttrs(ctx, slog.String("url", rawURL))

	doc, err := f.fetch(ctx, rawURL)
	elapsed := time.Since(start)

	outcome := OutcomeOK
	if err != nil {
		outcome = "error"
		if kind, ok := KindOf(err); ok {
			outcome = kind.String()
		} else if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = OutcomeCanceled
		}
		logger.WarnContext(ctx, "feed fetch", "module", "ingest", "action", "fetch", "resource", "feed", "result", "failed", "outcome", outcome, "error", err)
	} else {
		logger.DebugContext(ctx, "feed fetch", "module", "ingest", "action", "fetch", "resource", "feed", "result", "ok", "articles", len(doc.Articles), "elapsed", elapsed)
	}
	if f.observer != nil {
		f.observer.ObserveFetch(outcome, elapsed)
	}
	return doc, err
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (Document, error) {
	body, err := f.transport.Fetch(ctx, rawURL)
	if err != nil {
		return Document{}, err
	}
	u, _ := ParseFeedURL(rawURL)
	return f.parser.Parse(body, u.String())
}
