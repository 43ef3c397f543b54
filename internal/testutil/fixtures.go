package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"centavo/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a budget with a starting amount of 1000 beginning
// 2024-01-01, plus an open-ended current period with a daily allowance of 10.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string) *models.Budget {
	t.Helper()
	return CreateTestBudgetStarting(t, db, userID, 1000, "2024-01-01")
}

// CreateTestBudgetStarting creates a budget with the given starting amount and
// start date, opening a current period from the start date's month.
func CreateTestBudgetStarting(t *testing.T, db *gorm.DB, userID string, startingBudget float64, startDate string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Budget %d", nextID()),
		StartingBudget: startingBudget,
		StartDate:      startDate,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}

	var year, month int
	if _, err := fmt.Sscanf(startDate, "%4d-%2d", &year, &month); err != nil {
		t.Fatalf("bad start date %q: %v", startDate, err)
	}
	CreateTestPeriod(t, db, budget, 10, year, month)
	return budget
}

// CreateTestPeriod opens an open-ended current period for the budget with the
// given daily allowance, closing any previously current period the month
// before.
func CreateTestPeriod(t *testing.T, db *gorm.DB, budget *models.Budget, dailyAmount float64, fromYear, fromMonth int) *models.BudgetPeriod {
	t.Helper()

	untilIndex := fromYear*12 + fromMonth - 1
	untilYear := (untilIndex - 1) / 12
	untilMonth := untilIndex - untilYear*12
	if err := db.Model(&models.BudgetPeriod{}).
		Where("budget_id = ? AND is_current = ?", budget.ID, true).
		Updates(map[string]interface{}{
			"valid_until_year":  untilYear,
			"valid_until_month": untilMonth,
			"is_current":        false,
		}).Error; err != nil {
		t.Fatalf("failed to close current test period: %v", err)
	}

	period := &models.BudgetPeriod{
		BudgetID:       budget.ID,
		UserID:         budget.UserID,
		DailyAmount:    dailyAmount,
		MonthlyAmount:  dailyAmount * 30,
		ValidFromYear:  fromYear,
		ValidFromMonth: fromMonth,
		IsCurrent:      true,
	}
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test period: %v", err)
	}
	return period
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense records an expense against a budget on the given date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, budgetID string, amount float64, date string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:   userID,
		BudgetID: &budgetID,
		Amount:   amount,
		Date:     date,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestAdjustment records a signed adjustment against a budget.
func CreateTestAdjustment(t *testing.T, db *gorm.DB, userID, budgetID string, amount float64, date string) *models.BudgetAdjustment {
	t.Helper()

	adjustment := &models.BudgetAdjustment{
		BudgetID: budgetID,
		UserID:   userID,
		Amount:   amount,
		Date:     date,
	}
	if err := db.Create(adjustment).Error; err != nil {
		t.Fatalf("failed to create test adjustment: %v", err)
	}
	return adjustment
}

// CreateTestActivity creates a shared activity with the owner enrolled as a
// member.
func CreateTestActivity(t *testing.T, db *gorm.DB, ownerID string) *models.SharedActivity {
	t.Helper()

	activity := &models.SharedActivity{
		OwnerID: ownerID,
		Name:    fmt.Sprintf("Test Activity %d", nextID()),
	}
	if err := db.Create(activity).Error; err != nil {
		t.Fatalf("failed to create test activity: %v", err)
	}
	member := &models.ActivityMember{
		ActivityID: activity.ID,
		UserID:     ownerID,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to enroll test activity owner: %v", err)
	}
	return activity
}
