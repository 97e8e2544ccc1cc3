package recommend

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SeedSource supplies the ordered taste profile as aggregation seeds.
type SeedSource interface {
	Seeds(ctx context.Context) ([]Seed, error)
}

// Handlers provides HTTP handlers for recommendation operations.
type Handlers struct {
	service *Service
	seeds   SeedSource
}

// NewHandlers creates new recommendation handlers.
func NewHandlers(service *Service, seeds SeedSource) *Handlers {
	return &Handlers{
		service: service,
		seeds:   seeds,
	}
}

// RegisterRoutes registers the recommendation routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/pick", h.Pick)
}

type listResponse struct {
	Available []Candidate `json:"available"`
	Fallback  []Candidate `json:"fallback,omitempty"`
	Notice    string      `json:"notice,omitempty"`
}

// List returns ranked recommendations for the current profile.
// GET /api/v1/recommendations?fallback=true
func (h *Handlers) List(c echo.Context) error {
	profile, err := h.seeds.Seeds(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	result := h.service.Aggregate(c.Request().Context(), profile)
	includeFallback := c.QueryParam("fallback") == "true"

	resp := listResponse{Available: result.Available}
	if includeFallback {
		resp.Fallback = result.Fallback
	}

	switch {
	case len(result.Available) == 0 && len(result.Fallback) == 0:
		resp.Notice = "No recommendations found. Add more variety to your profile."
	case len(result.Available) == 0 && !includeFallback:
		resp.Notice = "No matches on your services. Retry with fallback=true to see titles off your providers."
	}

	return c.JSON(http.StatusOK, resp)
}

// Pick returns one random available recommendation.
// GET /api/v1/recommendations/pick
func (h *Handlers) Pick(c echo.Context) error {
	profile, err := h.seeds.Seeds(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	result := h.service.Aggregate(c.Request().Context(), profile)
	pick := result.Pick()
	if pick == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no recommendations available on your services")
	}

	return c.JSON(http.StatusOK, pick)
}
