package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"feedsync/backend/internal/logger"
	"feedsync/backend/internal/service"
)

type errorResponse struct {
	Error          string `json:"error"`
	Reason         string `json:"reason,omitempty"`
	ExistingFeedID string `json:"existingFeedId,omitempty"`
}

func writeServiceError(c echo.Context, err error) error {
	var fetchErr *service.FetchFailedError
	var conflict *service.FeedConflictError
	switch {
	case errors.As(err, &fetchErr):
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "feed fetch failed", Reason: fetchErr.Kind.String()})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, errorResponse{Error: "feed already exists", ExistingFeedID: idToString(conflict.ExistingFeed.ID)})
	case errors.Is(err, service.ErrInvalid):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "resource not found"})
	case errors.Is(err, service.ErrNoSubscriptions):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "no subscriptions"})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, errorResponse{Error: "conflict"})
	case errors.Is(err, service.ErrAlreadyRefreshing):
		return c.JSON(http.StatusConflict, errorResponse{Error: "refresh already in progress"})
	default:
		logger.ErrorContext(c.Request().Context(), "request failed", "module", "handler", "action", "request", "resource", "http", "result", "failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: message})
}
