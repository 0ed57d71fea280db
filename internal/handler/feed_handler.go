package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"feedsync/backend/internal/service"
)

type FeedHandler struct {
	service   service.FeedService
	refresher service.RefreshService
}

type subscribeRequest struct {
	URL string `json:"url"`
}

type feedSummaryResponse struct {
	ID              string  `json:"id"`
	URL             string  `json:"url"`
	Title           string  `json:"title"`
	LastRefreshedAt *string `json:"lastRefreshedAt,omitempty"`
	ArticleCount    int     `json:"articleCount"`
}

type feedResponse struct {
	ID              string  `json:"id"`
	URL             string  `json:"url"`
	Title           string  `json:"title"`
	CreatedAt       string  `json:"createdAt"`
	LastRefreshedAt *string `json:"lastRefreshedAt,omitempty"`
	UnreadCount     int     `json:"unreadCount"`
}

type refreshResponse struct {
	FeedID          string `json:"feedId"`
	UnreadCount     int    `json:"unreadCount"`
	LastRefreshedAt string `json:"lastRefreshedAt"`
	Inserted        int    `json:"inserted"`
	Updated         int    `json:"updated"`
}

type refreshAllResponse struct {
	Feeds     int `json:"feeds"`
	Refreshed int `json:"refreshed"`
	Failed    int `json:"failed"`
}

func NewFeedHandler(service service.FeedService, refresher service.RefreshService) *FeedHandler {
	return &FeedHandler{service: service, refresher: refresher}
}

func (h *FeedHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/feeds", h.Subscribe)
	g.GET("/feeds", h.List)
	g.POST("/feeds/refresh", h.RefreshAll)
	g.POST("/feeds/:id/refresh", h.Refresh)
	g.DELETE("/feeds/:id", h.Delete)
}

// Subscribe fetches a feed and stores it with its first batch of articles.
// @Summary Subscribe to a feed
// @Tags feeds
// @Accept json
// @Produce json
// @Param feed body subscribeRequest true "Feed URL"
// @Success 201 {object} feedSummaryResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /feeds [post]
func (h *FeedHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	summary, err := h.service.Subscribe(c.Request().Context(), req.URL)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, feedSummaryResponse{
		ID:              idToString(summary.ID),
		URL:             summary.URL,
		Title:           summary.Title,
		LastRefreshedAt: formatOptionalTime(summary.LastRefreshedAt),
		ArticleCount:    summary.ArticleCount,
	})
}

// List returns every subscription with its unread count, sorted by title.
// @Summary List feeds
// @Tags feeds
// @Produce json
// @Success 200 {array} feedResponse
// @Router /feeds [get]
func (h *FeedHandler) List(c echo.Context) error {
	feeds, err := h.service.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]feedResponse, 0, len(feeds))
	for _, feed := range feeds {
		response = append(response, feedResponse{
			ID:              idToString(feed.ID),
			URL:             feed.URL,
			Title:           feed.Title,
			CreatedAt:       feed.CreatedAt.UTC().Format(time.RFC3339),
			LastRefreshedAt: formatOptionalTime(feed.LastRefreshedAt),
			UnreadCount:     feed.UnreadCount,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// Refresh re-fetches one feed and merges its articles.
// @Summary Refresh a feed
// @Tags feeds
// @Produce json
// @Param id path int true "Feed ID"
// @Success 200 {object} refreshResponse
// @Failure 404 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /feeds/{id}/refresh [post]
func (h *FeedHandler) Refresh(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid request")
	}
	result, err := h.service.Refresh(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, refreshResponse{
		FeedID:          idToString(result.FeedID),
		UnreadCount:     result.UnreadCount,
		LastRefreshedAt: result.LastRefreshedAt.UTC().Format(time.RFC3339),
		Inserted:        result.Inserted,
		Updated:         result.Updated,
	})
}

// RefreshAll refreshes every subscription. Failing feeds are counted, not
// reported individually.
// @Summary Refresh all feeds
// @Tags feeds
// @Produce json
// @Success 200 {object} refreshAllResponse
// @Failure 409 {object} errorResponse
// @Router /feeds/refresh [post]
func (h *FeedHandler) RefreshAll(c echo.Context) error {
	summary, err := h.refresher.RefreshAll(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, refreshAllResponse{
		Feeds:     summary.Feeds,
		Refreshed: summary.Refreshed,
		Failed:    summary.Failed,
	})
}

// Delete unsubscribes from a feed and removes its articles.
// @Summary Delete a feed
// @Tags feeds
// @Param id path int true "Feed ID"
// @Success 204 "No Content"
// @Failure 404 {object} errorResponse
// @Router /feeds/{id} [delete]
func (h *FeedHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid request")
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
