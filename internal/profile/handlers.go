package profile

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/couchpick/couchpick/internal/metadata"
)

// Handlers contains the HTTP handlers for the taste profile and the
// watch-later list.
type Handlers struct {
	service *Service
}

// NewHandlers creates new profile handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the profile routes on the given group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/profile", h.listLiked)
	g.POST("/profile", h.addLiked)
	g.DELETE("/profile", h.clearLiked)
	g.DELETE("/profile/:mediaType/:id", h.removeLiked)

	g.GET("/watchlist", h.listWatchlist)
	g.POST("/watchlist", h.addWatchlist)
	g.DELETE("/watchlist", h.clearWatchlist)
	g.DELETE("/watchlist/:mediaType/:id", h.removeWatchlist)

	g.POST("/watched", h.markWatched)
}

func (h *Handlers) listLiked(c echo.Context) error {
	items, err := h.service.ListLiked(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handlers) addLiked(c echo.Context) error {
	var input AddInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if input.TmdbID <= 0 || input.Name == "" || !input.MediaType.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "tmdbId, mediaType and name are required")
	}

	item, err := h.service.AddLiked(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handlers) removeLiked(c echo.Context) error {
	tmdbID, mediaType, err := identityParams(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveLiked(c.Request().Context(), tmdbID, mediaType); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handlers) clearLiked(c echo.Context) error {
	if err := h.service.ClearLiked(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handlers) listWatchlist(c echo.Context) error {
	items, err := h.service.ListWatchlist(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handlers) addWatchlist(c echo.Context) error {
	var input WatchlistInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if input.TmdbID <= 0 || input.Name == "" || !input.MediaType.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "tmdbId, mediaType and name are required")
	}

	item, err := h.service.AddWatchlist(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handlers) removeWatchlist(c echo.Context) error {
	tmdbID, mediaType, err := identityParams(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveWatchlist(c.Request().Context(), tmdbID, mediaType); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handlers) clearWatchlist(c echo.Context) error {
	if err := h.service.ClearWatchlist(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handlers) markWatched(c echo.Context) error {
	var input AddInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if input.TmdbID <= 0 || input.Name == "" || !input.MediaType.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "tmdbId, mediaType and name are required")
	}

	item, err := h.service.MarkWatched(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

func identityParams(c echo.Context) (int, metadata.MediaType, error) {
	tmdbID, err := strconv.Atoi(c.Param("id"))
	if err != nil || tmdbID <= 0 {
		return 0, "", echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	mediaType := metadata.MediaType(c.Param("mediaType"))
	if !mediaType.Valid() {
		return 0, "", echo.NewHTTPError(http.StatusBadRequest, "invalid media type")
	}
	return tmdbID, mediaType, nil
}
