package scheduler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers contains the HTTP handlers for scheduled tasks.
type Handlers struct {
	scheduler *Scheduler
}

// NewHandlers creates new scheduler handlers.
func NewHandlers(scheduler *Scheduler) *Handlers {
	return &Handlers{scheduler: scheduler}
}

// RegisterRoutes registers the task routes on the given group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/tasks", h.listTasks)
	g.GET("/tasks/:id", h.getTask)
	g.POST("/tasks/:id/run", h.runTask)
}

func (h *Handlers) listTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scheduler.ListTasks())
}

func (h *Handlers) getTask(c echo.Context) error {
	info, err := h.scheduler.GetTask(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, info)
}

func (h *Handlers) runTask(c echo.Context) error {
	if err := h.scheduler.RunNow(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "started"})
}
