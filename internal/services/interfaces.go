package services

import (
	"context"

	"centavo/internal/dates"
	"centavo/internal/metrics"
	"centavo/internal/models"
	"centavo/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// BudgetServicer defines the contract for budget-related business logic.
// Creating a budget also opens its initial allowance period from the
// kind+amount the user entered.
type BudgetServicer interface {
	CreateBudget(userID, name, description string, startingBudget float64, startDate string, kind dates.BudgetKind, allowance float64) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, name string) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID, name, description string) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	CreateAdjustment(userID, budgetID string, amount float64, date, description string) (*models.BudgetAdjustment, error)
	GetBudgetAdjustments(userID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetAdjustment], error)
	DeleteAdjustment(userID, adjustmentID string) error
}

// PeriodServicer defines the contract for allowance period management.
type PeriodServicer interface {
	GetBudgetPeriods(userID, budgetID string) ([]models.BudgetPeriod, error)
	ChangeAllowance(userID, budgetID string, kind dates.BudgetKind, amount float64, fromYear, fromMonth int) (*models.BudgetPeriod, error)
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	FromDate   string // YYYY-MM-DD, inclusive
	ToDate     string // YYYY-MM-DD, inclusive
	CategoryID *string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateBudgetExpense(userID, budgetID string, categoryID *string, amount float64, date, description string) (*models.Expense, error)
	CreateActivityExpense(userID, activityID string, categoryID *string, amount float64, date, description string) (*models.Expense, error)
	GetBudgetExpenses(userID, budgetID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetActivityExpenses(userID, activityID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, categoryID *string, amount *float64, date, description string) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, icon, color string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// ActivityServicer defines the contract for shared-activity business logic.
type ActivityServicer interface {
	CreateActivity(ownerID, name, description string) (*models.SharedActivity, error)
	GetUserActivities(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SharedActivity], error)
	GetActivityByID(userID, activityID string) (*models.SharedActivity, error)
	DeleteActivity(userID, activityID string) error
	AddMember(userID, activityID, memberEmail, nickname string) (*models.ActivityMember, error)
	RemoveMember(userID, activityID, memberID string) error
	GetMembers(userID, activityID string) ([]models.ActivityMember, error)
}

// MonthlyBudgetResult reconciles a month's allowance against its expenses.
type MonthlyBudgetResult struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	DailyAmount   float64 `json:"daily_amount"`
	MonthlyAmount float64 `json:"monthly_amount"`
	Expenses      float64 `json:"expenses"`
	Remaining     float64 `json:"remaining"`
}

// TotalBudgetResult reconciles a budget's starting amount against its
// whole-lifetime expenses and adjustments.
type TotalBudgetResult struct {
	StartingBudget   float64 `json:"starting_budget"`
	TotalExpenses    float64 `json:"total_expenses"`
	TotalAdjustments float64 `json:"total_adjustments"`
	Remaining        float64 `json:"remaining"`
}

// MetricsServicer defines the contract for the computed budget metrics.
// Implementations gather inputs with concurrent fetches, hand them to the
// pure calculation core, and cache results until the next write.
type MetricsServicer interface {
	BurnDown(ctx context.Context, userID, budgetID, initialDate, finalDate string) ([]metrics.BurnDownPoint, error)
	MonthlyBudget(ctx context.Context, userID, budgetID string, year, month int) (*MonthlyBudgetResult, error)
	TotalBudget(ctx context.Context, userID, budgetID string) (*TotalBudgetResult, error)
	ExpensesByCategory(ctx context.Context, userID, budgetID, initialDate, finalDate string) ([]metrics.CategoryTotal, error)
	InvalidateBudget(budgetID string)
}

// MetricsInvalidator is the write-side hook for dropping cached metrics.
// Services that mutate expenses, adjustments, or periods call it so stale
// series never outlive the data they were computed from.
type MetricsInvalidator interface {
	InvalidateBudget(budgetID string)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
