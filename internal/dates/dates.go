// Package dates provides UTC calendar-date helpers shared by the metrics
// core and the request layer. All arithmetic uses UTC year/month/day
// components exclusively; collaborators exchange dates as YYYY-MM-DD
// strings with no time-of-day component, so any local-time handling here
// would shift day-boundary assignment.
package dates

import (
	"time"

	apperrors "centavo/internal/errors"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// BudgetKind identifies how a user entered an allowance amount.
type BudgetKind string

const (
	BudgetKindDaily   BudgetKind = "daily"
	BudgetKindMonthly BudgetKind = "monthly"
)

// Midnight normalizes a time to UTC midnight of its UTC calendar day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Format renders a time as a YYYY-MM-DD string using UTC components.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Parse parses a YYYY-MM-DD string into a UTC midnight time.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

// FirstAndLastDayOfMonth returns UTC midnight of day 1 and of the last
// calendar day of the month containing t.
func FirstAndLastDayOfMonth(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one.
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return first, last
}

// DaysInMonth returns the number of calendar days in the given month (1-12).
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween returns the number of whole days from a to b using UTC
// calendar days. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)) / (24 * time.Hour))
}

// DeriveAllowance derives the stored (daily, monthly) allowance pair from a
// single user-entered kind+amount for the given month. The derivation runs
// once at period creation; months differ in length, so the stored values are
// authoritative thereafter.
func DeriveAllowance(kind BudgetKind, amount float64, year, month int) (daily, monthly float64, err error) {
	if amount <= 0 {
		return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "allowance amount must be positive")
	}
	days := float64(DaysInMonth(year, month))
	switch kind {
	case BudgetKindDaily:
		return amount, amount * days, nil
	case BudgetKindMonthly:
		return amount / days, amount, nil
	default:
		return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget kind must be 'daily' or 'monthly'")
	}
}
