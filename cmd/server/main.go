package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"feedsync/backend/internal/app"
	"feedsync/backend/internal/config"
	"feedsync/backend/internal/handler"
	transport "feedsync/backend/internal/http"
	"feedsync/backend/internal/logger"
	"feedsync/backend/internal/scheduler"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("feedsync: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := app.New(cfg, app.Options{Registerer: reg})
	if err != nil {
		return err
	}
	defer a.Close()

	router := transport.NewRouter(
		handler.NewFeedHandler(a.Feeds, a.Refresh),
		handler.NewArticleHandler(a.Articles),
		handler.NewOPMLHandler(a.OPML),
		reg,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "module", "server", "action", "request", "resource", "http", "result", "ok", "addr", cfg.Addr, "db", cfg.DBPath)
		if err := router.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "module", "server", "action", "request", "resource", "http", "result", "ok")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return router.Shutdown(shutdownCtx)
	})
	if cfg.RefreshInterval > 0 {
		sched := scheduler.New(a.Refresh, cfg.RefreshInterval)
		g.Go(func() error {
			return sched.Run(gctx)
		})
	}

	return g.Wait()
}
