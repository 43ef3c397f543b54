package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"centavo/internal/dates"
	apperrors "centavo/internal/errors"
	"centavo/internal/services"
)

// PeriodHandler handles allowance-period requests.
type PeriodHandler struct {
	periodService services.PeriodServicer
	auditService  services.AuditServicer
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodService services.PeriodServicer, auditService services.AuditServicer) *PeriodHandler {
	return &PeriodHandler{periodService: periodService, auditService: auditService}
}

// ChangeAllowanceRequest represents the payload for changing a budget's
// allowance going forward.
type ChangeAllowanceRequest struct {
	Kind      string  `json:"kind" binding:"required,budget_kind"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	FromYear  int     `json:"from_year" binding:"required,min=1970,max=9999"`
	FromMonth int     `json:"from_month" binding:"required,min=1,max=12"`
}

// GetPeriods handles listing a budget's allowance periods.
// @Summary     Get budget periods
// @Description Get a budget's allowance periods, oldest first
// @Tags        periods
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {array} models.BudgetPeriod "Allowance periods"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/periods [get]
func (h *PeriodHandler) GetPeriods(c *gin.Context) {
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

	periods, err := h.periodService.GetBudgetPeriods(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

// ChangeAllowance handles changing a budget's allowance from a given month.
// @Summary     Change allowance
// @Description Close the current allowance period and open a new one from the given month
// @Tags        periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Budget ID"
// @Param       request body ChangeAllowanceRequest true "New allowance"
// @Success     201 {object} models.BudgetPeriod "New current period"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Month already covered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/periods [post]
func (h *PeriodHandler) ChangeAllowance(c *gin.Context) {
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

	var req ChangeAllowanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period, err := h.periodService.ChangeAllowance(
		userID, budgetID, dates.BudgetKind(req.Kind), req.Amount, req.FromYear, req.FromMonth,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CHANGE_ALLOWANCE", "budget_period", period.ID, c.ClientIP(),
		map[string]interface{}{"kind": req.Kind, "amount": req.Amount, "from": map[string]int{"year": req.FromYear, "month": req.FromMonth}})

	c.JSON(http.StatusCreated, gin.H{"period": period})
}
