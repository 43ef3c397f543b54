package metrics

import (
	"math"
	"time"

	"centavo/internal/dates"
	apperrors "centavo/internal/errors"
)

// checkExpenseAmounts rejects negative or non-finite expense amounts.
// A malformed amount is a data-integrity problem surfaced upward, never
// coerced to zero.
func checkExpenseAmounts(items []DatedAmount) error {
	for _, it := range items {
		if it.Amount < 0 || math.IsNaN(it.Amount) || math.IsInf(it.Amount, 0) {
			return apperrors.ErrInvalidAmount
		}
	}
	return nil
}

// checkSignedAmounts rejects non-finite amounts. Adjustments are signed,
// so negatives are legitimate here.
func checkSignedAmounts(items []DatedAmount) error {
	for _, it := range items {
		if math.IsNaN(it.Amount) || math.IsInf(it.Amount, 0) {
			return apperrors.ErrInvalidAmount
		}
	}
	return nil
}

// parseRange parses and validates an inclusive date range, returning the
// normalized bounds and the day count (span + 1).
func parseRange(rangeStart, rangeEnd string) (start, end time.Time, dayCount int, err error) {
	start, err = dates.Parse(rangeStart)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	end, err = dates.Parse(rangeEnd)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, 0, apperrors.ErrInvalidDateRange
	}
	return start, end, dates.DaysBetween(start, end) + 1, nil
}

// AggregateByDay groups dated amounts into per-day totals over an inclusive
// range, keyed by day index relative to rangeStart. Items falling outside
// [0, dayCount) are silently dropped: callers are expected to pre-filter at
// the fetch layer, and the clip only guards against off-by-one artifacts.
// Input order is irrelevant; same-day items are summed.
func AggregateByDay(items []DatedAmount, rangeStart, rangeEnd string) (map[int]float64, error) {
	start, _, dayCount, err := parseRange(rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	if err := checkSignedAmounts(items); err != nil {
		return nil, err
	}

	totals := make(map[int]float64, dayCount)
	for _, it := range items {
		d, err := dates.Parse(it.Date)
		if err != nil {
			return nil, err
		}
		idx := dates.DaysBetween(start, d)
		if idx < 0 || idx >= dayCount {
			continue
		}
		totals[idx] += it.Amount
	}
	return totals, nil
}

// SumAmounts totals a list of expense amounts, rejecting malformed entries.
func SumAmounts(items []DatedAmount) (float64, error) {
	if err := checkExpenseAmounts(items); err != nil {
		return 0, err
	}
	var sum float64
	for _, it := range items {
		sum += it.Amount
	}
	return sum, nil
}

// SumSignedAmounts totals a list of signed adjustment amounts.
func SumSignedAmounts(items []DatedAmount) (float64, error) {
	if err := checkSignedAmounts(items); err != nil {
		return 0, err
	}
	var sum float64
	for _, it := range items {
		sum += it.Amount
	}
	return sum, nil
}
