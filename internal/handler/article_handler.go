package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"feedsync/backend/internal/model"
	"feedsync/backend/internal/service"
)

type ArticleHandler struct {
	service service.ArticleService
}

func NewArticleHandler(service service.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

func (h *ArticleHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/feeds/:id/articles", h.List)
	g.POST("/articles/:id/read", h.MarkRead)
	g.POST("/articles/:id/toggle-read", h.ToggleRead)
}

type articleResponse struct {
	ID          string  `json:"id"`
	FeedID      string  `json:"feedId"`
	GUID        string  `json:"guid"`
	Title       string  `json:"title"`
	Summary     *string `json:"summary,omitempty"`
	Content     *string `json:"content,omitempty"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"publishedAt"`
	FetchedAt   string  `json:"fetchedAt"`
	Read        bool    `json:"read"`
}

type articleListResponse struct {
	Articles []articleResponse `json:"articles"`
	HasMore  bool              `json:"hasMore"`
}

type readStateResponse struct {
	ArticleID   string `json:"articleId"`
	FeedID      string `json:"feedId"`
	Read        bool   `json:"read"`
	UnreadCount int    `json:"unreadCount"`
}

// List returns a feed's articles newest first.
// @Summary List articles
// @Tags articles
// @Produce json
// @Param id path int true "Feed ID"
// @Param unreadOnly query bool false "Only return unread articles"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Offset for pagination"
// @Success 200 {object} articleListResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /feeds/{id}/articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	feedID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid request")
	}
	limit, ok := parseOptionalInt(c.QueryParam("limit"))
	if !ok {
		return badRequest(c, "invalid limit")
	}
	offset, ok := parseOptionalInt(c.QueryParam("offset"))
	if !ok {
		return badRequest(c, "invalid offset")
	}

	params := service.ArticleListParams{
		FeedID:     feedID,
		UnreadOnly: c.QueryParam("unreadOnly") == "true",
		Limit:      limit,
		Offset:     offset,
	}
	articles, err := h.service.List(c.Request().Context(), params)
	if err != nil {
		return writeServiceError(c, err)
	}

	response := articleListResponse{
		Articles: make([]articleResponse, len(articles)),
		HasMore:  limit > 0 && len(articles) == limit,
	}
	for i, a := range articles {
		response.Articles[i] = toArticleResponse(a)
	}
	return c.JSON(http.StatusOK, response)
}

// MarkRead marks an article read and reports the feed's unread count.
// @Summary Mark an article read
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} readStateResponse
// @Failure 404 {object} errorResponse
// @Router /articles/{id}/read [post]
func (h *ArticleHandler) MarkRead(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid request")
	}
	state, err := h.service.MarkRead(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toReadStateResponse(state))
}

// ToggleRead flips an article's read flag.
// @Summary Toggle an article's read flag
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} readStateResponse
// @Failure 404 {object} errorResponse
// @Router /articles/{id}/toggle-read [post]
func (h *ArticleHandler) ToggleRead(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid request")
	}
	state, err := h.service.ToggleRead(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toReadStateResponse(state))
}

func toArticleResponse(a model.Article) articleResponse {
	return articleResponse{
		ID:          idToString(a.ID),
		FeedID:      idToString(a.FeedID),
		GUID:        a.FeedGUID,
		Title:       a.Title,
		Summary:     a.Summary,
		Content:     a.Content,
		URL:         a.OriginalURL,
		PublishedAt: a.PublishedAt.UTC().Format(time.RFC3339),
		FetchedAt:   a.FetchedAt.UTC().Format(time.RFC3339),
		Read:        a.Read,
	}
}

func toReadStateResponse(state service.ReadState) readStateResponse {
	return readStateResponse{
		ArticleID:   idToString(state.ArticleID),
		FeedID:      idToString(state.FeedID),
		Read:        state.Read,
		UnreadCount: state.UnreadCount,
	}
}
