package services

import (
	"errors"
	"math"

	"gorm.io/gorm"

	"centavo/internal/dates"
	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db          *gorm.DB
	invalidator MetricsInvalidator
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, invalidator MetricsInvalidator) ExpenseServicer {
	return &expenseService{db: db, invalidator: invalidator}
}

// CreateBudgetExpense records an expense against a budget owned by the user.
func (s *expenseService) CreateBudgetExpense(userID, budgetID string, categoryID *string, amount float64, date, description string) (*models.Expense, error) {
	if err := s.checkBudgetOwnership(userID, budgetID); err != nil {
		return nil, err
	}
	expense, err := s.create(userID, &budgetID, nil, categoryID, amount, date, description)
	if err != nil {
		return nil, err
	}
	s.invalidator.InvalidateBudget(budgetID)
	return expense, nil
}

// CreateActivityExpense records an expense against a shared activity the
// user owns or participates in.
func (s *expenseService) CreateActivityExpense(userID, activityID string, categoryID *string, amount float64, date, description string) (*models.Expense, error) {
	if err := s.checkActivityAccess(userID, activityID); err != nil {
		return nil, err
	}
	return s.create(userID, nil, &activityID, categoryID, amount, date, description)
}

func (s *expenseService) create(userID string, budgetID, activityID, categoryID *string, amount float64, date, description string) (*models.Expense, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, apperrors.ErrInvalidAmount
	}
	if _, err := dates.Parse(date); err != nil {
		return nil, err
	}
	if categoryID != nil {
		if err := s.checkCategoryOwnership(userID, *categoryID); err != nil {
			return nil, err
		}
	}

	expense := &models.Expense{
		UserID:      userID,
		BudgetID:    budgetID,
		ActivityID:  activityID,
		CategoryID:  categoryID,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetBudgetExpenses returns a paginated, filtered list of a budget's expenses.
func (s *expenseService) GetBudgetExpenses(userID, budgetID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if err := s.checkBudgetOwnership(userID, budgetID); err != nil {
		return nil, err
	}
	return s.list(s.db.Model(&models.Expense{}).Where("budget_id = ?", budgetID), page, filter)
}

// GetActivityExpenses returns a paginated, filtered list of an activity's expenses.
func (s *expenseService) GetActivityExpenses(userID, activityID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if err := s.checkActivityAccess(userID, activityID); err != nil {
		return nil, err
	}
	return s.list(s.db.Model(&models.Expense{}).Where("activity_id = ?", activityID), page, filter)
}

// Expense dates are ISO strings, so inclusive range filters are plain
// lexicographic comparisons.
func (s *expenseService) list(base *gorm.DB, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	if filter.FromDate != "" {
		if _, err := dates.Parse(filter.FromDate); err != nil {
			return nil, err
		}
		base = base.Where("date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		if _, err := dates.Parse(filter.ToDate); err != nil {
			return nil, err
		}
		base = base.Where("date <= ?", filter.ToDate)
	}
	if filter.FromDate != "" && filter.ToDate != "" && filter.ToDate < filter.FromDate {
		return nil, apperrors.ErrInvalidDateRange
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Category").
		Order("date DESC, created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense recorded by the user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", expenseID, userID).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense modifies an expense's amount, date, category, or description.
func (s *expenseService) UpdateExpense(userID, expenseID string, categoryID *string, amount *float64, date, description string) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if amount != nil {
		if *amount < 0 || math.IsNaN(*amount) || math.IsInf(*amount, 0) {
			return nil, apperrors.ErrInvalidAmount
		}
		updates["amount"] = *amount
	}
	if date != "" {
		if _, err := dates.Parse(date); err != nil {
			return nil, err
		}
		updates["date"] = date
	}
	if categoryID != nil {
		if err := s.checkCategoryOwnership(userID, *categoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *categoryID
	}
	if description != "" {
		updates["description"] = description
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if expense.BudgetID != nil {
		s.invalidator.InvalidateBudget(*expense.BudgetID)
	}
	return s.GetExpenseByID(userID, expenseID)
}

// DeleteExpense removes an expense recorded by the user.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if expense.BudgetID != nil {
		s.invalidator.InvalidateBudget(*expense.BudgetID)
	}
	return nil
}

func (s *expenseService) checkBudgetOwnership(userID, budgetID string) error {
	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("id = ? AND user_id = ?", budgetID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

func (s *expenseService) checkActivityAccess(userID, activityID string) error {
	var count int64
	if err := s.db.Model(&models.SharedActivity{}).
		Where("id = ? AND owner_id = ?", activityID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil
	}
	if err := s.db.Model(&models.ActivityMember{}).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrActivityNotFound
	}
	return nil
}

func (s *expenseService) checkCategoryOwnership(userID, categoryID string) error {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
