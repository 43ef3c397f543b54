package metrics

import (
	"math"
	"time"

	"centavo/internal/dates"
	apperrors "centavo/internal/errors"
)

// BurnDownInput carries everything the burn-down engine needs. Expenses and
// adjustments must already be scoped to the owning budget and date range by
// the fetch layer; the engine only buckets and accumulates.
type BurnDownInput struct {
	InitialDate    string // YYYY-MM-DD, inclusive
	FinalDate      string // YYYY-MM-DD, inclusive
	DailyAllowance float64
	Expenses       []DatedAmount
	Adjustments    []DatedAmount // signed; nil when the caller tracks none
	Today          time.Time     // reference for past-vs-future classification
}

// BurnDown produces the day-indexed remaining-budget series for the range:
// the actual line (allowance pool minus recorded net spend) and the
// theoretical line (constant burn of one allowance per day).
//
// The period budget for the range is DailyAllowance x dayCount, one
// allowance unit per calendar day of the inclusive range. Days after Today
// with nothing recorded yield an unobserved actual value, except the final
// point, which is forced to an observed zero so the series always closes.
func BurnDown(in BurnDownInput) ([]BurnDownPoint, error) {
	start, _, dayCount, err := parseRange(in.InitialDate, in.FinalDate)
	if err != nil {
		return nil, err
	}
	if in.DailyAllowance < 0 || math.IsNaN(in.DailyAllowance) || math.IsInf(in.DailyAllowance, 0) {
		return nil, apperrors.ErrInvalidAmount
	}
	if err := checkExpenseAmounts(in.Expenses); err != nil {
		return nil, err
	}

	expensesByDay, err := AggregateByDay(in.Expenses, in.InitialDate, in.FinalDate)
	if err != nil {
		return nil, err
	}
	adjustmentsByDay, err := AggregateByDay(in.Adjustments, in.InitialDate, in.FinalDate)
	if err != nil {
		return nil, err
	}

	today := dates.Midnight(in.Today)
	periodBudget := in.DailyAllowance * float64(dayCount)

	// Strictly sequential: each day's remaining depends on the prior day's.
	actual := periodBudget
	theoretical := periodBudget

	points := make([]BurnDownPoint, 0, dayCount)
	for i := 0; i < dayCount; i++ {
		spend, spent := expensesByDay[i]
		adjustment, adjusted := adjustmentsByDay[i]

		actual -= spend
		actual += adjustment
		theoretical -= in.DailyAllowance

		pointDate := start.AddDate(0, 0, i)

		point := BurnDownPoint{
			Date:                 dates.Format(pointDate),
			TheoreticalRemaining: theoretical,
		}
		if pointDate.After(today) && !spent && !adjusted {
			// Not yet determined: the day hasn't happened and nothing
			// was recorded for it.
			point.ActualRemaining = NotYetObserved()
		} else {
			point.ActualRemaining = Observed(actual)
		}
		points = append(points, point)
	}

	// Close the series: the final point alone is forced to zero when it is
	// still undetermined, so charts render a terminal value.
	if last := &points[dayCount-1]; !last.ActualRemaining.Observed {
		last.ActualRemaining = Observed(0)
	}

	return points, nil
}
