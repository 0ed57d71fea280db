// Package app wires storage, ingestion and services from a Config. It is
// shared by the server and the command line tool.
package app

import (
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"feedsync/backend/internal/config"
	"feedsync/backend/internal/db"
	"feedsync/backend/internal/ingest"
	"feedsync/backend/internal/metrics"
	"feedsync/backend/internal/network"
	"feedsync/backend/internal/repository"
	"feedsync/backend/internal/service"
	"feedsync/backend/internal/snowflake"
)

type App struct {
	DB       *sql.DB
	Recorder *metrics.Recorder

	Feeds    service.FeedService
	Articles service.ArticleService
	OPML     service.OPMLService
	Refresh  service.RefreshService
}

// Options overrides parts of the wiring. The zero value uses the real
// network and guard.
type Options struct {
	Registerer    prometheus.Registerer
	ClientFactory *network.ClientFactory
	Checker       ingest.URLChecker
}

func New(cfg config.Config, opts Options) (*App, error) {
	if err := snowflake.Init(cfg.NodeID); err != nil {
		return nil, fmt.Errorf("init snowflake: %w", err)
	}

	dbConn, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	registerer := opts.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	recorder := metrics.NewRecorder(registerer)

	clients := opts.ClientFactory
	if clients == nil {
		clients = network.NewClientFactory(cfg.ProxyURL)
	}
	var checker ingest.URLChecker = ingest.NewGuard(nil)
	if opts.Checker != nil {
		checker = opts.Checker
	}

	fetcher := ingest.NewFetcher(
		ingest.NewTransport(clients.NewHTTPClient(), checker, cfg.UserAgent),
		ingest.NewParser(nil),
		recorder,
	)

	feedRepo := repository.NewFeedRepository(dbConn)
	articleRepo := repository.NewArticleRepository(dbConn)
	tx := repository.NewTransactor(dbConn)
	reconciler := service.NewReconciler(tx, articleRepo, recorder)

	feedService := service.NewFeedService(feedRepo, articleRepo, tx, reconciler, fetcher)
	return &App{
		DB:       dbConn,
		Recorder: recorder,
		Feeds:    feedService,
		Articles: service.NewArticleService(articleRepo, feedRepo, reconciler),
		OPML:     service.NewOPMLService(feedRepo),
		Refresh:  service.NewRefreshService(feedRepo, feedService, cfg.RefreshConcurrency, cfg.RefreshPerSecond),
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
