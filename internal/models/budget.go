package models

// Budget is a named pool of money with a fixed starting amount. The
// starting budget is set at creation and never recalculated; it is the
// baseline for "total remaining since start". The evolving daily/monthly
// allowance lives in BudgetPeriod rows.
type Budget struct {
	Base
	UserID         string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string  `gorm:"not null" json:"name"`
	Description    string  `json:"description"`
	StartingBudget float64 `gorm:"not null" json:"starting_budget"`
	StartDate      string  `gorm:"size:10;not null" json:"start_date"` // YYYY-MM-DD

	Periods     []BudgetPeriod     `gorm:"foreignKey:BudgetID" json:"periods,omitempty"`
	Expenses    []Expense          `gorm:"foreignKey:BudgetID" json:"expenses,omitempty"`
	Adjustments []BudgetAdjustment `gorm:"foreignKey:BudgetID" json:"adjustments,omitempty"`
}

// BudgetPeriod is a dated validity window during which a budget's
// daily/monthly allowance pair is fixed. The pair is derived once from a
// single user input when the period opens; the stored values are
// authoritative thereafter. For a given budget at most one period is
// current, and validity ranges must not overlap: changing the allowance
// closes the current period and opens a new one in the same transaction.
type BudgetPeriod struct {
	Base
	BudgetID        string  `gorm:"type:uuid;not null;index" json:"budget_id"`
	UserID          string  `gorm:"type:uuid;not null;index" json:"user_id"`
	DailyAmount     float64 `gorm:"not null" json:"daily_amount"`
	MonthlyAmount   float64 `gorm:"not null" json:"monthly_amount"`
	ValidFromYear   int     `gorm:"not null" json:"valid_from_year"`
	ValidFromMonth  int     `gorm:"not null" json:"valid_from_month"` // 1-12
	ValidUntilYear  *int    `json:"valid_until_year,omitempty"`
	ValidUntilMonth *int    `json:"valid_until_month,omitempty"`
	IsCurrent       bool    `gorm:"default:false" json:"is_current"`
}

// BudgetAdjustment is a signed correction to a budget's available money.
// Positive amounts add budget, negative ones remove it; in remaining-budget
// math adjustments always add (their sign carries the direction), the
// opposite of unsigned expenses.
type BudgetAdjustment struct {
	Base
	BudgetID    string  `gorm:"type:uuid;not null;index" json:"budget_id"`
	UserID      string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      float64 `gorm:"not null" json:"amount"`
	Date        string  `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	Description string  `json:"description"`
}
