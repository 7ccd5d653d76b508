package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forgeplanner/core/internal/domain/dates"
	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

type MoneyHandler struct {
	moneyService ports.MoneyService
	clock        ports.Clock
	logger       *logger.Logger
}

func NewMoneyHandler(moneyService ports.MoneyService, clock ports.Clock, logger *logger.Logger) *MoneyHandler {
	return &MoneyHandler{moneyService: moneyService, clock: clock, logger: logger.WithComponent("money_handler")}
}

func (h *MoneyHandler) Register(g *echo.Group) {
	g.GET("/transactions", h.ListTransactions)
	g.POST("/transactions", h.CreateTransaction)
	g.PATCH("/transactions/:id", h.UpdateTransaction)
	g.DELETE("/transactions/:id", h.DeleteTransaction)
	g.GET("/totals", h.Totals)
	g.GET("/settings", h.GetSettings)
	g.PUT("/settings", h.UpdateSettings)
	g.GET("/export", h.Export)
	g.POST("/import", h.Import)
}

// TotalsResponse carries the summary of a set of transactions.
type TotalsResponse struct {
	entities.Totals
	Categories map[string]entities.CategoryTotals `json:"categories"`
	Currency   string                             `json:"currency"`
}

// selectTransactions applies ?date= or ?start=&end=; no filter returns everything.
func (h *MoneyHandler) selectTransactions(c echo.Context) ([]entities.Transaction, error) {
	ctx := c.Request().Context()
	if date := c.QueryParam("date"); date != "" {
		if _, err := dates.Parse(date); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		}
		return h.moneyService.ByDate(ctx, date), nil
	}
	if c.QueryParam("start") != "" || c.QueryParam("end") != "" {
		var q ports.DateRangeQuery
		if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
		}
		if err := c.Validate(&q); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return h.moneyService.ByDateRange(ctx, q.Start, q.End), nil
	}
	return h.moneyService.Transactions(ctx), nil
}

// ListTransactions godoc
// @Summary List transactions
// @Tags money
// @Produce json
// @Param date query string false "Single day, newest first"
// @Param start query string false "Range start"
// @Param end query string false "Range end"
// @Success 200 {object} ListResponse[entities.Transaction]
// @Security BearerAuth
// @Router /money/transactions [get]
func (h *MoneyHandler) ListTransactions(c echo.Context) error {
	txs, err := h.selectTransactions(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(txs))
}

// CreateTransaction godoc
// @Summary Record income or an expense
// @Tags money
// @Accept json
// @Produce json
// @Param request body entities.TransactionRequest true "Transaction"
// @Success 201 {object} entities.Transaction
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /money/transactions [post]
func (h *MoneyHandler) CreateTransaction(c echo.Context) error {
	var req entities.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tx, err := h.moneyService.Add(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, tx)
}

func (h *MoneyHandler) UpdateTransaction(c echo.Context) error {
	var patch entities.TransactionPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	txs, err := h.moneyService.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newListResponse(txs))
}

func (h *MoneyHandler) DeleteTransaction(c echo.Context) error {
	return c.JSON(http.StatusOK, newListResponse(h.moneyService.Delete(c.Request().Context(), c.Param("id"))))
}

// Totals godoc
// @Summary Income, expenses and balance
// @Tags money
// @Produce json
// @Param start query string false "Range start"
// @Param end query string false "Range end"
// @Success 200 {object} TotalsResponse
// @Security BearerAuth
// @Router /money/totals [get]
func (h *MoneyHandler) Totals(c echo.Context) error {
	txs, err := h.selectTransactions(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TotalsResponse{
		Totals:     entities.CalculateTotals(txs),
		Categories: entities.CategoryBreakdown(txs),
		Currency:   h.moneyService.Settings(c.Request().Context()).Currency,
	})
}

func (h *MoneyHandler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.moneyService.Settings(c.Request().Context()))
}

func (h *MoneyHandler) UpdateSettings(c echo.Context) error {
	var settings entities.MoneySettings
	if err := c.Bind(&settings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.moneyService.SaveSettings(c.Request().Context(), settings); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

// Export godoc
// @Summary Download every transaction as JSON
// @Tags money
// @Produce json
// @Success 200 {object} entities.MoneyExport
// @Security BearerAuth
// @Router /money/export [get]
func (h *MoneyHandler) Export(c echo.Context) error {
	filename := fmt.Sprintf("forge-money-%s.json", dates.Today(h.clock.Now()))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)

	if err := h.moneyService.Export(c.Request().Context(), c.Response()); err != nil {
		h.logger.WithError(err).Error("Export failed")
		return err
	}
	return nil
}

// Import godoc
// @Summary Replace transactions from an export document
// @Tags money
// @Accept json
// @Produce json
// @Param request body entities.MoneyExport true "Export document"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /money/import [post]
func (h *MoneyHandler) Import(c echo.Context) error {
	doc, err := h.moneyService.Import(c.Request().Context(), c.Request().Body)
	if err != nil {
		h.logger.WithError(err).Warn("Import rejected")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Imported %d transactions", len(doc.Transactions))})
}
