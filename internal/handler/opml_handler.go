package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"feedsync/backend/internal/service"
)

type OPMLHandler struct {
	service service.OPMLService
}

func NewOPMLHandler(service service.OPMLService) *OPMLHandler {
	return &OPMLHandler{service: service}
}

func (h *OPMLHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/opml", h.Export)
}

// Export downloads the subscriptions as an OPML 2.0 document.
// @Summary Export OPML
// @Tags opml
// @Produce xml
// @Success 200 {string} string "OPML file content"
// @Failure 404 {object} errorResponse
// @Router /opml [get]
func (h *OPMLHandler) Export(c echo.Context) error {
	payload, err := h.service.Export(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set("Content-Disposition", `attachment; filename="feedsync.opml"`)
	return c.Blob(http.StatusOK, "application/xml", payload)
}
