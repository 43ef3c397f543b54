package metrics

import (
	"math"
	"sort"

	apperrors "centavo/internal/errors"
)

// SelectPeriod finds the single budget period whose validity range covers
// the target month. Periods are scanned in validFrom order; when stored data
// overlaps (a data-integrity fault, not an expected branch), the period with
// the latest validFrom wins so the answer stays deterministic. Returns
// ErrPeriodNotFound when no period covers the month.
func SelectPeriod(periods []Period, target Month) (Period, error) {
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ValidFrom.index() < sorted[j].ValidFrom.index()
	})

	found := false
	var covering Period
	for _, p := range sorted {
		if p.Covers(target) {
			covering = p
			found = true
		}
	}
	if !found {
		return Period{}, apperrors.ErrPeriodNotFound
	}
	return covering, nil
}

// MonthlyRemaining computes how much of the covering period's monthly
// allowance is left for the target month: monthlyAmount minus the month's
// expenses. The caller supplies expenses already filtered to
// [firstDayOfMonth, lastDayOfMonth].
func MonthlyRemaining(periods []Period, target Month, monthExpenses []DatedAmount) (float64, error) {
	period, err := SelectPeriod(periods, target)
	if err != nil {
		return 0, err
	}
	spent, err := SumAmounts(monthExpenses)
	if err != nil {
		return 0, err
	}
	return period.MonthlyAmount - spent, nil
}

// TotalRemaining computes the budget remaining since its start:
// startingBudget minus all expenses plus all signed adjustments, with no
// date filter. The starting budget is fixed at creation and is the baseline
// here, never recomputed.
func TotalRemaining(startingBudget float64, expenses, adjustments []DatedAmount) (float64, error) {
	if startingBudget < 0 || math.IsNaN(startingBudget) || math.IsInf(startingBudget, 0) {
		return 0, apperrors.ErrInvalidAmount
	}
	spent, err := SumAmounts(expenses)
	if err != nil {
		return 0, err
	}
	adjusted, err := SumSignedAmounts(adjustments)
	if err != nil {
		return 0, err
	}
	return startingBudget - spent + adjusted, nil
}
