package metadata

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for metadata operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates new metadata handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the metadata routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.DELETE("/cache", h.ClearCache)
	g.GET("/status", h.GetStatus)
	g.POST("/test", h.TestConnection)
}

// Search searches movies and TV series by query.
// GET /api/v1/metadata/search?query=...
func (h *Handlers) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter is required")
	}

	results, err := h.service.Search(c.Request().Context(), query)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "TMDB is not configured")
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, results)
}

// ClearCache drops all cached upstream responses.
// DELETE /api/v1/metadata/cache
func (h *Handlers) ClearCache(c echo.Context) error {
	h.service.ClearCache()
	return c.JSON(http.StatusOK, map[string]string{"status": "cache cleared"})
}

// TestConnection verifies upstream connectivity with the configured key.
// POST /api/v1/metadata/test
func (h *Handlers) TestConnection(c echo.Context) error {
	if !h.service.IsConfigured() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "TMDB is not configured")
	}
	if err := h.service.Test(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetStatus reports provider configuration and cache size.
// GET /api/v1/metadata/status
func (h *Handlers) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"configured": h.service.IsConfigured(),
		"cacheItems": h.service.CacheLen(),
	})
}
