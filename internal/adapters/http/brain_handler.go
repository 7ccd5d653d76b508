package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

type BrainHealthHandler struct {
	brainService ports.BrainHealthService
	logger       *logger.Logger
}

func NewBrainHealthHandler(brainService ports.BrainHealthService, logger *logger.Logger) *BrainHealthHandler {
	return &BrainHealthHandler{brainService: brainService, logger: logger.WithComponent("brain_handler")}
}

func (h *BrainHealthHandler) Register(g *echo.Group) {
	g.GET("/streak", h.Streak)
	g.GET("/week/:date", h.Week)
	g.GET("/:date", h.GetRecord)
	g.PATCH("/:date", h.UpdateRecord)
}

// RecordResponse is a day record with its score.
type RecordResponse struct {
	entities.DayRecord
	Score int `json:"score"`
}

// GetRecord godoc
// @Summary Brain health record for a day
// @Tags brain
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Success 200 {object} RecordResponse
// @Security BearerAuth
// @Router /brain/{date} [get]
func (h *BrainHealthHandler) GetRecord(c echo.Context) error {
	date, err := dateParam(c, "date")
	if err != nil {
		return err
	}
	r := h.brainService.Record(c.Request().Context(), date)
	return c.JSON(http.StatusOK, RecordResponse{DayRecord: r, Score: r.Score()})
}

// UpdateRecord godoc
// @Summary Update the checklist for a day
// @Tags brain
// @Accept json
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Param request body entities.DayRecordPatch true "Sections to replace"
// @Success 200 {object} RecordResponse
// @Security BearerAuth
// @Router /brain/{date} [patch]
func (h *BrainHealthHandler) UpdateRecord(c echo.Context) error {
	date, err := dateParam(c, "date")
	if err != nil {
		return err
	}
	var patch entities.DayRecordPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	r, err := h.brainService.UpdateRecord(c.Request().Context(), date, patch)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, RecordResponse{DayRecord: r, Score: r.Score()})
}

// Week returns the seven scores ending at date.
func (h *BrainHealthHandler) Week(c echo.Context) error {
	date, err := dateParam(c, "date")
	if err != nil {
		return err
	}
	week, err := h.brainService.WeekData(c.Request().Context(), date)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newListResponse(week))
}

func (h *BrainHealthHandler) Streak(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"streak": h.brainService.CurrentStreak(c.Request().Context())})
}
