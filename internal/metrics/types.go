// Package metrics is the pure calculation core behind the budget metrics
// endpoints: day-bucketed aggregation, the burn-down engine, remaining-budget
// reconciliation, and category totals. Every function here is deterministic
// and side-effect-free over in-memory inputs; fetching rows and caching
// results belong to the service layer.
package metrics

import (
	"encoding/json"
	"strconv"

	"centavo/internal/dates"
)

// DatedAmount is a monetary amount attached to a calendar day. Expense
// amounts are non-negative; adjustment amounts are signed.
type DatedAmount struct {
	Amount float64
	Date   string // YYYY-MM-DD, UTC calendar date
}

// Remaining is an observed-or-not remaining-budget value. A future day with
// no recorded spend has no observation yet, which is distinct from a
// remaining value of zero; the JSON encoding keeps consumers honest by
// rendering the unobserved state as null.
type Remaining struct {
	Value    float64
	Observed bool
}

// Observed wraps a known remaining value.
func Observed(v float64) Remaining {
	return Remaining{Value: v, Observed: true}
}

// NotYetObserved marks a value with no observation.
func NotYetObserved() Remaining {
	return Remaining{}
}

// MarshalJSON renders the value, or null when unobserved.
func (r Remaining) MarshalJSON() ([]byte, error) {
	if !r.Observed {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a number or null.
func (r *Remaining) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Remaining{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = Observed(v)
	return nil
}

// BurnDownPoint is one day of the burn-down series. Generated fresh on
// every query, never persisted.
type BurnDownPoint struct {
	Date                 string    `json:"date"`
	ActualRemaining      Remaining `json:"actual_remaining"`
	TheoreticalRemaining float64   `json:"theoretical_remaining"`
}

// Month identifies a calendar month.
type Month struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
}

// index maps the month onto a single comparable axis.
func (m Month) index() int { return m.Year*12 + m.Month }

// MonthOf returns the Month containing the given calendar date string.
func MonthOf(date string) (Month, error) {
	t, err := dates.Parse(date)
	if err != nil {
		return Month{}, err
	}
	return Month{Year: t.Year(), Month: int(t.Month())}, nil
}

// Period is an allowance validity window, the calculation-core view of a
// stored budget period. ValidUntil nil means open-ended (the current period).
type Period struct {
	DailyAmount   float64
	MonthlyAmount float64
	ValidFrom     Month
	ValidUntil    *Month
}

// Covers reports whether the period's validity range contains the target month.
func (p Period) Covers(target Month) bool {
	if target.index() < p.ValidFrom.index() {
		return false
	}
	return p.ValidUntil == nil || target.index() <= p.ValidUntil.index()
}

// CategoryAmount is an expense amount tagged with its category display name.
// An empty name means the category reference is missing.
type CategoryAmount struct {
	Category string
	Amount   float64
}

// CategoryTotal is an aggregated per-category spending total.
type CategoryTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}
