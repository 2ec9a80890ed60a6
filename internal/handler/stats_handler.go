package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"filmoteca/internal/service"
)

// StatsHandler serves the order report; user and movie reports live on
// their own handlers.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Orders godoc
// @Summary Order statistics with a trailing 7-day histogram
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.OrderStats
// @Router /stats/orders [get]
func (h *StatsHandler) Orders(c echo.Context) error {
	stats, err := h.statsService.OrderStats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
