package services

import (
	"errors"

	"gorm.io/gorm"

	"centavo/internal/dates"
	apperrors "centavo/internal/errors"
	"centavo/internal/models"
)

// periodService manages the allowance periods of a budget.
type periodService struct {
	db          *gorm.DB
	invalidator MetricsInvalidator
}

// NewPeriodService creates a new PeriodServicer.
func NewPeriodService(db *gorm.DB, invalidator MetricsInvalidator) PeriodServicer {
	return &periodService{db: db, invalidator: invalidator}
}

// GetBudgetPeriods returns all allowance periods for a budget, oldest first.
func (s *periodService) GetBudgetPeriods(userID, budgetID string) ([]models.BudgetPeriod, error) {
	if err := s.checkBudgetOwnership(userID, budgetID); err != nil {
		return nil, err
	}

	var periods []models.BudgetPeriod
	if err := s.db.Where("budget_id = ?", budgetID).
		Order("valid_from_year, valid_from_month").
		Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return periods, nil
}

// ChangeAllowance closes the current allowance period at the month before
// fromYear/fromMonth and opens a new open-ended period from that month.
// Past months keep the allowance that was in force at the time, so burn-down
// series already computed for them never shift retroactively.
func (s *periodService) ChangeAllowance(
	userID, budgetID string,
	kind dates.BudgetKind,
	amount float64,
	fromYear, fromMonth int,
) (*models.BudgetPeriod, error) {
	if err := s.checkBudgetOwnership(userID, budgetID); err != nil {
		return nil, err
	}
	if fromMonth < 1 || fromMonth > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	daily, monthly, err := dates.DeriveAllowance(kind, amount, fromYear, fromMonth)
	if err != nil {
		return nil, err
	}

	var opened *models.BudgetPeriod
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var current models.BudgetPeriod
		if err := tx.Where("budget_id = ? AND is_current = ?", budgetID, true).
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPeriodNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		newIndex := fromYear*12 + fromMonth
		currentIndex := current.ValidFromYear*12 + current.ValidFromMonth
		if newIndex <= currentIndex {
			return apperrors.ErrPeriodOverlap
		}

		untilIndex := newIndex - 1
		untilYear := (untilIndex - 1) / 12
		untilMonth := untilIndex - untilYear*12
		if err := tx.Model(&current).Updates(map[string]interface{}{
			"valid_until_year":  untilYear,
			"valid_until_month": untilMonth,
			"is_current":        false,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		opened = &models.BudgetPeriod{
			BudgetID:       budgetID,
			UserID:         userID,
			DailyAmount:    daily,
			MonthlyAmount:  monthly,
			ValidFromYear:  fromYear,
			ValidFromMonth: fromMonth,
			IsCurrent:      true,
		}
		if err := tx.Create(opened).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateBudget(budgetID)
	return opened, nil
}

func (s *periodService) checkBudgetOwnership(userID, budgetID string) error {
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
