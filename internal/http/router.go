package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"feedsync/backend/internal/handler"
)

func NewRouter(
	feedHandler *handler.FeedHandler,
	articleHandler *handler.ArticleHandler,
	opmlHandler *handler.OPMLHandler,
	gatherer prometheus.Gatherer,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(RequestLoggerMiddleware())

	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api")
	feedHandler.RegisterRoutes(api)
	articleHandler.RegisterRoutes(api)
	opmlHandler.RegisterRoutes(api)

	return e
}
