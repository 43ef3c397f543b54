package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "centavo/internal/errors"
	"centavo/internal/services"
)

// MetricsHandler serves the computed budget metrics: the burn-down series,
// remaining-budget reconciliations, and category totals.
type MetricsHandler struct {
	metricsService services.MetricsServicer
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(metricsService services.MetricsServicer) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService}
}

// BurnDownQuery holds the query parameters for the burn-down series.
type BurnDownQuery struct {
	InitialDate string `form:"initial_date" binding:"required,calendar_date"`
	FinalDate   string `form:"final_date" binding:"required,calendar_date"`
}

// MonthQuery holds the query parameters identifying a calendar month.
type MonthQuery struct {
	Year  int `form:"year" binding:"required,min=1970,max=9999"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// GetBurnDown handles the burn-down series for a date range.
// @Summary     Get burn-down series
// @Description Get the day-by-day actual and theoretical remaining-budget series for an inclusive date range
// @Tags        metrics
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  string true "Budget ID"
// @Param       initial_date query string true "Range start (YYYY-MM-DD)"
// @Param       final_date   query string true "Range end (YYYY-MM-DD)"
// @Success     200 {array} metrics.BurnDownPoint "Burn-down points"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget or period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/metrics/burndown [get]
func (h *MetricsHandler) GetBurnDown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query BurnDownQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	points, err := h.metricsService.BurnDown(c.Request.Context(), userID, budgetID, query.InitialDate, query.FinalDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": points})
}

// GetMonthlyBudget handles the monthly remaining-budget reconciliation.
// @Summary     Get monthly budget
// @Description Reconcile a month's allowance against its recorded expenses
// @Tags        metrics
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true "Budget ID"
// @Param       year  query int    true "Calendar year"
// @Param       month query int    true "Calendar month (1-12)"
// @Success     200 {object} services.MonthlyBudgetResult "Monthly reconciliation"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget or period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/metrics/monthly [get]
func (h *MetricsHandler) GetMonthlyBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query MonthQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.metricsService.MonthlyBudget(c.Request.Context(), userID, budgetID, query.Year, query.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTotalBudget handles the whole-lifetime remaining-budget reconciliation.
// @Summary     Get total budget
// @Description Reconcile the budget's fixed starting amount against all expenses and adjustments
// @Tags        metrics
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.TotalBudgetResult "Total reconciliation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/metrics/total [get]
func (h *MetricsHandler) GetTotalBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.metricsService.TotalBudget(c.Request.Context(), userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpensesByCategory handles per-category spending totals.
// @Summary     Get expenses by category
// @Description Get per-category spending totals for an inclusive date range, largest first
// @Tags        metrics
// @Produce     json
// @Security    BearerAuth
// @Param       id           path  string true "Budget ID"
// @Param       initial_date query string true "Range start (YYYY-MM-DD)"
// @Param       final_date   query string true "Range end (YYYY-MM-DD)"
// @Success     200 {array} metrics.CategoryTotal "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/metrics/categories [get]
func (h *MetricsHandler) GetExpensesByCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query BurnDownQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	totals, err := h.metricsService.ExpensesByCategory(c.Request.Context(), userID, budgetID, query.InitialDate, query.FinalDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": totals})
}
