package models

// Expense is a dated, categorized amount owned by either a budget or a
// shared activity (exactly one of BudgetID/ActivityID is set). Only the
// calendar-date component matters for aggregation, so the date is stored
// in the YYYY-MM-DD wire format.
type Expense struct {
	Base
	UserID      string  `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetID    *string `gorm:"type:uuid;index" json:"budget_id,omitempty"`
	ActivityID  *string `gorm:"type:uuid;index" json:"activity_id,omitempty"`
	CategoryID  *string `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Amount      float64 `gorm:"not null" json:"amount"`
	Date        string  `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	Description string  `json:"description"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
