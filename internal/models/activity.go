package models

// SharedActivity is a spending container shared between members: a trip, a
// flat, a recurring dinner. It owns expenses the same way a budget does.
// Settlement math between members is out of scope; the activity only tracks
// who belongs and what was spent.
type SharedActivity struct {
	Base
	OwnerID     string `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	Members  []ActivityMember `gorm:"foreignKey:ActivityID" json:"members,omitempty"`
	Expenses []Expense        `gorm:"foreignKey:ActivityID" json:"expenses,omitempty"`
}

// ActivityMember links a user to a shared activity.
type ActivityMember struct {
	Base
	ActivityID string `gorm:"type:uuid;not null;index" json:"activity_id"`
	UserID     string `gorm:"type:uuid;not null;index" json:"user_id"`
	Nickname   string `json:"nickname"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
