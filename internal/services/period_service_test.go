package services

import (
	"testing"

	"centavo/internal/dates"
	"centavo/internal/models"
	"centavo/internal/testutil"
)

func TestGetBudgetPeriods(t *testing.T) {
	t.Run("ordered_oldest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPeriodService(db, noopInvalidator{})
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		testutil.CreateTestPeriod(t, db, budget, 15, 2024, 6)

		periods, err := svc.GetBudgetPeriods(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if len(periods) != 2 {
			t.Fatalf("expected 2 periods, got %d", len(periods))
		}
		if periods[0].ValidFromMonth != 1 || periods[1].ValidFromMonth != 6 {
			t.Errorf("expected periods ordered by validity, got months %d then %d",
				periods[0].ValidFromMonth, periods[1].ValidFromMonth)
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPeriodService(db, noopInvalidator{})
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user1.ID)

		_, err := svc.GetBudgetPeriods(user2.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestChangeAllowance(t *testing.T) {
	t.Run("closes_current_and_opens_new", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPeriodService(db, noopInvalidator{})
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID) // current from 2024-01

		opened, err := svc.ChangeAllowance(user.ID, budget.ID, dates.BudgetKindDaily, 20, 2024, 6)
		testutil.AssertNoError(t, err)

		if !opened.IsCurrent {
			t.Error("expected new period to be current")
		}
		if opened.ValidFromYear != 2024 || opened.ValidFromMonth != 6 {
			t.Errorf("expected valid from 2024-06, got %d-%d", opened.ValidFromYear, opened.ValidFromMonth)
		}
		if opened.DailyAmount != 20 {
			t.Errorf("expected daily amount 20, got %v", opened.DailyAmount)
		}
		// June 2024 has 30 days.
		if opened.MonthlyAmount != 600 {
			t.Errorf("expected monthly amount 600, got %v", opened.MonthlyAmount)
		}

		var closed models.BudgetPeriod
		if err := db.Where("budget_id = ? AND is_current = ?", budget.ID, false).First(&closed).Error; err != nil {
			t.Fatalf("expected a closed period: %v", err)
		}
		if closed.ValidUntilYear == nil || closed.ValidUntilMonth == nil {
			t.Fatal("expected closed period to have a validity end")
		}
		if *closed.ValidUntilYear != 2024 || *closed.ValidUntilMonth != 5 {
			t.Errorf("expected closed at 2024-05, got %d-%d", *closed.ValidUntilYear, *closed.ValidUntilMonth)
		}
	})

	t.Run("closes_across_year_boundary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPeriodService(db, noopInvalidator{})
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		_, err := svc.ChangeAllowance(user.ID, budget.ID, dates.BudgetKindDaily, 20, 2025, 1)
		testutil.AssertNoError(t, err)

		var closed models.BudgetPeriod
		if err := db.Where("budget_id = ? AND is_current = ?", budget.ID, false).First(&closed).Error; err != nil {
			t.Fatalf("expected a closed period: %v", err)
		}
		if *closed.ValidUntilYear != 2024 || *closed.ValidUntilMonth != 12 {
			t.Errorf("expected closed at 2024-12, got %d-%d", *closed.ValidUntilYear, *closed.ValidUntilMonth)
		}
	})

	t.Run("rejects_backdated_change", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPeriodService(db, noopInvalidator{})
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		_, err := svc.ChangeAllowance(user.ID, budget.ID, dates.BudgetKindDaily, 20, 2023, 12)
		testutil.AssertAppError(t, err, "PERIOD_OVERLAP")

		_, err = svc.ChangeAllowance(user.ID, budget.ID, dates.BudgetKindDaily, 20, 2024, 1)
		testutil.AssertAppError(t, err, "PERIOD_OVERLAP")
	})

	t.Run("bad_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPeriodService(db, noopInvalidator{})
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		_, err := svc.ChangeAllowance(user.ID, budget.ID, dates.BudgetKindDaily, 20, 2024, 13)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("single_current_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPeriodService(db, noopInvalidator{})
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)

		_, err := svc.ChangeAllowance(user.ID, budget.ID, dates.BudgetKindDaily, 20, 2024, 3)
		testutil.AssertNoError(t, err)
		_, err = svc.ChangeAllowance(user.ID, budget.ID, dates.BudgetKindMonthly, 900, 2024, 7)
		testutil.AssertNoError(t, err)

		var current int64
		db.Model(&models.BudgetPeriod{}).Where("budget_id = ? AND is_current = ?", budget.ID, true).Count(&current)
		if current != 1 {
			t.Errorf("expected exactly one current period, got %d", current)
		}
	})
}
