package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"centavo/internal/cache"
	"centavo/internal/dates"
	apperrors "centavo/internal/errors"
	"centavo/internal/metrics"
	"centavo/internal/models"
)

// metricsService computes budget metrics on demand. It gathers the rows a
// calculation needs with concurrent fetches, hands them to the pure functions
// in the metrics package, and caches results per budget until the next write
// invalidates them.
type metricsService struct {
	db *gorm.DB

	burnDowns  *cache.LRU[[]metrics.BurnDownPoint]
	monthlies  *cache.LRU[MonthlyBudgetResult]
	totals     *cache.LRU[TotalBudgetResult]
	categories *cache.LRU[[]metrics.CategoryTotal]

	now func() time.Time
}

// NewMetricsService creates a new MetricsServicer backed by LRU caches of
// the given size and TTL.
func NewMetricsService(db *gorm.DB, cacheSize int, cacheTTL time.Duration) MetricsServicer {
	return &metricsService{
		db:         db,
		burnDowns:  cache.NewLRU[[]metrics.BurnDownPoint](cacheSize, cacheTTL),
		monthlies:  cache.NewLRU[MonthlyBudgetResult](cacheSize, cacheTTL),
		totals:     cache.NewLRU[TotalBudgetResult](cacheSize, cacheTTL),
		categories: cache.NewLRU[[]metrics.CategoryTotal](cacheSize, cacheTTL),
		now:        time.Now,
	}
}

// BurnDown returns the day-by-day remaining-budget series for the inclusive
// date range, computed fresh from current rows on every cache miss. The daily
// allowance comes from the period in force during the range's first month.
func (s *metricsService) BurnDown(ctx context.Context, userID, budgetID, initialDate, finalDate string) ([]metrics.BurnDownPoint, error) {
	if _, err := s.getBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	// Today participates in past-vs-future classification, so it is part of
	// the cache identity.
	today := s.now()
	key := fmt.Sprintf("%s:burndown:%s:%s:%s", budgetID, initialDate, finalDate, dates.Format(today))
	if cached, ok := s.burnDowns.Get(key); ok {
		return cached, nil
	}

	startMonth, err := metrics.MonthOf(initialDate)
	if err != nil {
		return nil, err
	}

	var (
		expenses    []metrics.DatedAmount
		adjustments []metrics.DatedAmount
		periods     []metrics.Period
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.fetchExpenses(gctx, budgetID, initialDate, finalDate)
		return err
	})
	g.Go(func() error {
		var err error
		adjustments, err = s.fetchAdjustments(gctx, budgetID, initialDate, finalDate)
		return err
	})
	g.Go(func() error {
		var err error
		periods, err = s.fetchPeriods(gctx, budgetID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	period, err := metrics.SelectPeriod(periods, startMonth)
	if err != nil {
		return nil, err
	}

	points, err := metrics.BurnDown(metrics.BurnDownInput{
		InitialDate:    initialDate,
		FinalDate:      finalDate,
		DailyAllowance: period.DailyAmount,
		Expenses:       expenses,
		Adjustments:    adjustments,
		Today:          today,
	})
	if err != nil {
		return nil, err
	}

	s.burnDowns.Set(key, points)
	return points, nil
}

// MonthlyBudget reconciles the target month's allowance against its expenses.
func (s *metricsService) MonthlyBudget(ctx context.Context, userID, budgetID string, year, month int) (*MonthlyBudgetResult, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if _, err := s.getBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s:monthly:%04d-%02d", budgetID, year, month)
	if cached, ok := s.monthlies.Get(key); ok {
		return &cached, nil
	}

	first, last := dates.FirstAndLastDayOfMonth(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))

	var (
		expenses []metrics.DatedAmount
		periods  []metrics.Period
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.fetchExpenses(gctx, budgetID, dates.Format(first), dates.Format(last))
		return err
	})
	g.Go(func() error {
		var err error
		periods, err = s.fetchPeriods(gctx, budgetID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	target := metrics.Month{Year: year, Month: month}
	period, err := metrics.SelectPeriod(periods, target)
	if err != nil {
		return nil, err
	}
	remaining, err := metrics.MonthlyRemaining(periods, target, expenses)
	if err != nil {
		return nil, err
	}
	spent, err := metrics.SumAmounts(expenses)
	if err != nil {
		return nil, err
	}

	result := MonthlyBudgetResult{
		Year:          year,
		Month:         month,
		DailyAmount:   period.DailyAmount,
		MonthlyAmount: period.MonthlyAmount,
		Expenses:      spent,
		Remaining:     remaining,
	}
	s.monthlies.Set(key, result)
	return &result, nil
}

// TotalBudget reconciles the budget's fixed starting amount against its
// whole-lifetime expenses and adjustments.
func (s *metricsService) TotalBudget(ctx context.Context, userID, budgetID string) (*TotalBudgetResult, error) {
	budget, err := s.getBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	key := budgetID + ":total"
	if cached, ok := s.totals.Get(key); ok {
		return &cached, nil
	}

	var (
		expenses    []metrics.DatedAmount
		adjustments []metrics.DatedAmount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.fetchExpenses(gctx, budgetID, "", "")
		return err
	})
	g.Go(func() error {
		var err error
		adjustments, err = s.fetchAdjustments(gctx, budgetID, "", "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	remaining, err := metrics.TotalRemaining(budget.StartingBudget, expenses, adjustments)
	if err != nil {
		return nil, err
	}
	spent, err := metrics.SumAmounts(expenses)
	if err != nil {
		return nil, err
	}
	adjusted, err := metrics.SumSignedAmounts(adjustments)
	if err != nil {
		return nil, err
	}

	result := TotalBudgetResult{
		StartingBudget:   budget.StartingBudget,
		TotalExpenses:    spent,
		TotalAdjustments: adjusted,
		Remaining:        remaining,
	}
	s.totals.Set(key, result)
	return &result, nil
}

// ExpensesByCategory returns per-category spending totals for the inclusive
// date range, largest first.
func (s *metricsService) ExpensesByCategory(ctx context.Context, userID, budgetID, initialDate, finalDate string) ([]metrics.CategoryTotal, error) {
	if _, err := s.getBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s:bycategory:%s:%s", budgetID, initialDate, finalDate)
	if cached, ok := s.categories.Get(key); ok {
		return cached, nil
	}

	if _, err := dates.Parse(initialDate); err != nil {
		return nil, err
	}
	if _, err := dates.Parse(finalDate); err != nil {
		return nil, err
	}
	if finalDate < initialDate {
		return nil, apperrors.ErrInvalidDateRange
	}

	var rows []models.Expense
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Where("budget_id = ? AND date >= ? AND date <= ?", budgetID, initialDate, finalDate).
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	items := make([]metrics.CategoryAmount, 0, len(rows))
	for _, row := range rows {
		item := metrics.CategoryAmount{Amount: row.Amount}
		if row.Category != nil {
			item.Category = row.Category.Name
		}
		items = append(items, item)
	}

	totals, err := metrics.AggregateByCategory(items)
	if err != nil {
		return nil, err
	}

	s.categories.Set(key, totals)
	return totals, nil
}

// InvalidateBudget drops every cached metric computed for the budget.
func (s *metricsService) InvalidateBudget(budgetID string) {
	prefix := budgetID + ":"
	s.burnDowns.DeletePrefix(prefix)
	s.monthlies.DeletePrefix(prefix)
	s.totals.DeletePrefix(prefix)
	s.categories.DeletePrefix(prefix)
}

func (s *metricsService) getBudget(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", budgetID, userID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// fetchExpenses loads a budget's expenses as dated amounts, optionally
// bounded to an inclusive date range. Empty bounds mean unbounded.
func (s *metricsService) fetchExpenses(ctx context.Context, budgetID, fromDate, toDate string) ([]metrics.DatedAmount, error) {
	query := s.db.WithContext(ctx).Model(&models.Expense{}).Where("budget_id = ?", budgetID)
	if fromDate != "" {
		query = query.Where("date >= ?", fromDate)
	}
	if toDate != "" {
		query = query.Where("date <= ?", toDate)
	}

	var rows []models.Expense
	if err := query.Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return datedAmounts(rows, func(e models.Expense) (float64, string) { return e.Amount, e.Date }), nil
}

func (s *metricsService) fetchAdjustments(ctx context.Context, budgetID, fromDate, toDate string) ([]metrics.DatedAmount, error) {
	query := s.db.WithContext(ctx).Model(&models.BudgetAdjustment{}).Where("budget_id = ?", budgetID)
	if fromDate != "" {
		query = query.Where("date >= ?", fromDate)
	}
	if toDate != "" {
		query = query.Where("date <= ?", toDate)
	}

	var rows []models.BudgetAdjustment
	if err := query.Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return datedAmounts(rows, func(a models.BudgetAdjustment) (float64, string) { return a.Amount, a.Date }), nil
}

func (s *metricsService) fetchPeriods(ctx context.Context, budgetID string) ([]metrics.Period, error) {
	var rows []models.BudgetPeriod
	if err := s.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("valid_from_year, valid_from_month").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	periods := make([]metrics.Period, 0, len(rows))
	for _, row := range rows {
		p := metrics.Period{
			DailyAmount:   row.DailyAmount,
			MonthlyAmount: row.MonthlyAmount,
			ValidFrom:     metrics.Month{Year: row.ValidFromYear, Month: row.ValidFromMonth},
		}
		if row.ValidUntilYear != nil && row.ValidUntilMonth != nil {
			p.ValidUntil = &metrics.Month{Year: *row.ValidUntilYear, Month: *row.ValidUntilMonth}
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func datedAmounts[T any](rows []T, pick func(T) (float64, string)) []metrics.DatedAmount {
	out := make([]metrics.DatedAmount, 0, len(rows))
	for _, row := range rows {
		amount, date := pick(row)
		out = append(out, metrics.DatedAmount{Amount: amount, Date: date})
	}
	return out
}
