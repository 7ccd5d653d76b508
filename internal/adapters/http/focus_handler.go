package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

type FocusHandler struct {
	focusService ports.FocusService
	logger       *logger.Logger
}

func NewFocusHandler(focusService ports.FocusService, logger *logger.Logger) *FocusHandler {
	return &FocusHandler{focusService: focusService, logger: logger.WithComponent("focus_handler")}
}

func (h *FocusHandler) Register(g *echo.Group) {
	g.GET("/:minutes", h.Stats)
	g.POST("/:minutes/attempt", h.Attempt)
	g.POST("/:minutes/complete", h.Complete)
}

// StatsResponse is the counter pair plus its display form.
type StatsResponse struct {
	Minutes int `json:"minutes"`
	entities.DurationStats
	Display string `json:"display"`
}

func minutesParam(c echo.Context) (int, error) {
	minutes, err := strconv.Atoi(c.Param("minutes"))
	if err != nil || (minutes != 30 && minutes != 45) {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Focus sessions are 30 or 45 minutes")
	}
	return minutes, nil
}

func (h *FocusHandler) respond(c echo.Context, minutes int, stats entities.DurationStats) error {
	return c.JSON(http.StatusOK, StatsResponse{Minutes: minutes, DurationStats: stats, Display: stats.String()})
}

// Stats godoc
// @Summary Focus session counters
// @Tags focus
// @Produce json
// @Param minutes path int true "30 or 45"
// @Success 200 {object} StatsResponse
// @Security BearerAuth
// @Router /focus/{minutes} [get]
func (h *FocusHandler) Stats(c echo.Context) error {
	minutes, err := minutesParam(c)
	if err != nil {
		return err
	}
	return h.respond(c, minutes, h.focusService.Stats(c.Request().Context(), minutes))
}

func (h *FocusHandler) Attempt(c echo.Context) error {
	minutes, err := minutesParam(c)
	if err != nil {
		return err
	}
	return h.respond(c, minutes, h.focusService.RecordAttempt(c.Request().Context(), minutes))
}

func (h *FocusHandler) Complete(c echo.Context) error {
	minutes, err := minutesParam(c)
	if err != nil {
		return err
	}
	return h.respond(c, minutes, h.focusService.RecordCompletion(c.Request().Context(), minutes))
}
