package services

import (
	"errors"

	"gorm.io/gorm"

	"centavo/internal/dates"
	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db          *gorm.DB
	invalidator MetricsInvalidator
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, invalidator MetricsInvalidator) BudgetServicer {
	return &budgetService{db: db, invalidator: invalidator}
}

// CreateBudget creates a new budget and opens its initial allowance period
// for the month of the start date. The starting budget is fixed here and is
// never recalculated afterwards.
func (s *budgetService) CreateBudget(
	userID, name, description string,
	startingBudget float64,
	startDate string,
	kind dates.BudgetKind,
	allowance float64,
) (*models.Budget, error) {
	if startingBudget < 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	start, err := dates.Parse(startDate)
	if err != nil {
		return nil, err
	}

	daily, monthly, err := dates.DeriveAllowance(kind, allowance, start.Year(), int(start.Month()))
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:         userID,
		Name:           name,
		Description:    description,
		StartingBudget: startingBudget,
		StartDate:      startDate,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		period := &models.BudgetPeriod{
			BudgetID:       budget.ID,
			UserID:         userID,
			DailyAmount:    daily,
			MonthlyAmount:  monthly,
			ValidFromYear:  start.Year(),
			ValidFromMonth: int(start.Month()),
			IsCurrent:      true,
		}
		if err := tx.Create(period).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		budget.Periods = []models.BudgetPeriod{*period}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of budgets for the user,
// optionally filtered by name.
func (s *budgetService) GetUserBudgets(
	userID string,
	page pagination.PageRequest,
	name string,
) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if name != "" {
		base = base.Where("name LIKE ?", "%"+name+"%")
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates a budget's name and description. The starting budget
// and start date are immutable.
func (s *budgetService) UpdateBudget(userID, budgetID, name, description string) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget and its periods.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", budgetID).Delete(&models.BudgetPeriod{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidator.InvalidateBudget(budgetID)
	return nil
}

// CreateAdjustment records a signed correction to a budget's available money.
func (s *budgetService) CreateAdjustment(userID, budgetID string, amount float64, date, description string) (*models.BudgetAdjustment, error) {
	if _, err := s.GetBudgetByID(userID, budgetID); err != nil {
		return nil, err
	}
	if _, err := dates.Parse(date); err != nil {
		return nil, err
	}

	adjustment := &models.BudgetAdjustment{
		BudgetID:    budgetID,
		UserID:      userID,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
	if err := s.db.Create(adjustment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.invalidator.InvalidateBudget(budgetID)
	return adjustment, nil
}

// GetBudgetAdjustments returns a paginated list of a budget's adjustments.
func (s *budgetService) GetBudgetAdjustments(
	userID, budgetID string,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.BudgetAdjustment], error) {
	if _, err := s.GetBudgetByID(userID, budgetID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.BudgetAdjustment{}).Where("budget_id = ?", budgetID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var adjustments []models.BudgetAdjustment
	if err := base.Scopes(pagination.Paginate(page)).Order("date").Find(&adjustments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(adjustments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteAdjustment removes an adjustment owned by the user.
func (s *budgetService) DeleteAdjustment(userID, adjustmentID string) error {
	var adjustment models.BudgetAdjustment
	if err := s.db.Where("id = ? AND user_id = ?", adjustmentID, userID).First(&adjustment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAdjustmentNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&adjustment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.invalidator.InvalidateBudget(adjustment.BudgetID)
	return nil
}
