package metrics

import (
	"reflect"
	"testing"
	"time"

	"centavo/internal/testutil"
)

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBurnDownThreeDayScenario(t *testing.T) {
	// 3 days at 10/day -> period budget 30. One expense of 5 on day 0,
	// today is day 0: day 1 is future+unspent, day 2 is the forced-to-zero
	// terminal point.
	points, err := BurnDown(BurnDownInput{
		InitialDate:    "2024-03-01",
		FinalDate:      "2024-03-03",
		DailyAllowance: 10,
		Expenses:       []DatedAmount{{Amount: 5, Date: "2024-03-01"}},
		Today:          utc(2024, time.March, 1),
	})
	if err != nil {
		t.Fatalf("BurnDown: %v", err)
	}

	want := []BurnDownPoint{
		{Date: "2024-03-01", ActualRemaining: Observed(25), TheoreticalRemaining: 20},
		{Date: "2024-03-02", ActualRemaining: NotYetObserved(), TheoreticalRemaining: 10},
		{Date: "2024-03-03", ActualRemaining: Observed(0), TheoreticalRemaining: 0},
	}
	if !reflect.DeepEqual(points, want) {
		t.Errorf("points = %+v, want %+v", points, want)
	}
}

func TestBurnDownLengthEqualsDayCount(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		final    string
		wantDays int
	}{
		{"single_day", "2024-03-01", "2024-03-01", 1},
		{"full_march", "2024-03-01", "2024-03-31", 31},
		{"leap_february", "2024-02-01", "2024-02-29", 29},
		{"across_months", "2024-02-27", "2024-03-02", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := BurnDown(BurnDownInput{
				InitialDate:    tt.initial,
				FinalDate:      tt.final,
				DailyAllowance: 10,
				Today:          utc(2024, time.June, 1),
			})
			if err != nil {
				t.Fatalf("BurnDown: %v", err)
			}
			if len(points) != tt.wantDays {
				t.Errorf("len(points) = %d, want %d", len(points), tt.wantDays)
			}
		})
	}
}

func TestBurnDownIdempotent(t *testing.T) {
	in := BurnDownInput{
		InitialDate:    "2024-03-01",
		FinalDate:      "2024-03-10",
		DailyAllowance: 7.5,
		Expenses: []DatedAmount{
			{Amount: 3, Date: "2024-03-02"},
			{Amount: 12.25, Date: "2024-03-05"},
		},
		Adjustments: []DatedAmount{{Amount: -2, Date: "2024-03-04"}},
		Today:       utc(2024, time.March, 6),
	}

	first, err := BurnDown(in)
	if err != nil {
		t.Fatalf("BurnDown: %v", err)
	}
	second, err := BurnDown(in)
	if err != nil {
		t.Fatalf("BurnDown: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different series")
	}
}

func TestBurnDownTheoreticalLineIsArithmetic(t *testing.T) {
	const allowance = 12.5
	points, err := BurnDown(BurnDownInput{
		InitialDate:    "2024-03-01",
		FinalDate:      "2024-03-31",
		DailyAllowance: allowance,
		Today:          utc(2024, time.March, 15),
	})
	if err != nil {
		t.Fatalf("BurnDown: %v", err)
	}

	periodBudget := allowance * float64(len(points))
	if points[0].TheoreticalRemaining != periodBudget-allowance {
		t.Errorf("first theoretical = %v, want %v", points[0].TheoreticalRemaining, periodBudget-allowance)
	}
	for i := 1; i < len(points); i++ {
		if points[i].TheoreticalRemaining != points[i-1].TheoreticalRemaining-allowance {
			t.Errorf("day %d: theoretical %v does not follow %v by -%v",
				i, points[i].TheoreticalRemaining, points[i-1].TheoreticalRemaining, allowance)
		}
	}
	if points[len(points)-1].TheoreticalRemaining != 0 {
		t.Errorf("final theoretical = %v, want 0", points[len(points)-1].TheoreticalRemaining)
	}
}

func TestBurnDownConservation(t *testing.T) {
	// Every day has a recorded expense, so no point can be unobserved and
	// the final actual value must equal periodBudget - sum(expenses).
	expenses := []DatedAmount{
		{Amount: 4, Date: "2024-03-01"},
		{Amount: 6, Date: "2024-03-02"},
		{Amount: 1.5, Date: "2024-03-03"},
		{Amount: 0.5, Date: "2024-03-03"}, // same-day amounts sum
		{Amount: 10, Date: "2024-03-04"},
	}
	points, err := BurnDown(BurnDownInput{
		InitialDate:    "2024-03-01",
		FinalDate:      "2024-03-04",
		DailyAllowance: 10,
		Expenses:       expenses,
		Today:          utc(2024, time.March, 1),
	})
	if err != nil {
		t.Fatalf("BurnDown: %v", err)
	}

	for i, p := range points {
		if !p.ActualRemaining.Observed {
			t.Errorf("day %d unexpectedly unobserved", i)
		}
	}
	last := points[len(points)-1].ActualRemaining
	want := 40.0 - 22.0
	if last.Value != want {
		t.Errorf("final actual = %v, want %v", last.Value, want)
	}
}

func TestBurnDownRangeEntirelyInPast(t *testing.T) {
	points, err := BurnDown(BurnDownInput{
		InitialDate:    "2024-01-01",
		FinalDate:      "2024-01-05",
		DailyAllowance: 10,
		Expenses:       []DatedAmount{{Amount: 3, Date: "2024-01-02"}},
		Today:          utc(2024, time.June, 1),
	})
	if err != nil {
		t.Fatalf("BurnDown: %v", err)
	}
	for i, p := range points {
		if !p.ActualRemaining.Observed {
			t.Errorf("past day %d must be observed", i)
		}
	}
}

func TestBurnDownRangeEntirelyInFuture(t *testing.T) {
	points, err := BurnDown(BurnDownInput{
		InitialDate:    "2024-09-01",
		FinalDate:      "2024-09-05",
		DailyAllowance: 10,
		Today:          utc(2024, time.March, 1),
	})
	if err != nil {
		t.Fatalf("BurnDown: %v", err)
	}
	for i := 0; i < len(points)-1; i++ {
		if points[i].ActualRemaining.Observed {
			t.Errorf("future day %d must be unobserved", i)
		}
	}
	last := points[len(points)-1].ActualRemaining
	if !last.Observed || last.Value != 0 {
		t.Errorf("terminal point = %+v, want observed 0", last)
	}
}

func TestBurnDownSingleDayRange(t *testing.T) {
	points, err := BurnDown(BurnDownInput{
		InitialDate:    "2024-03-01",
		FinalDate:      "2024-03-01",
		DailyAllowance: 10,
		Expenses:       []DatedAmount{{Amount: 4, Date: "2024-03-01"}},
		Today:          utc(2024, time.March, 1),
	})
	if err != nil {
		t.Fatalf("BurnDown: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("len(points) = %d, want 1", len(points))
	}
	if got := points[0].ActualRemaining; !got.Observed || got.Value != 6 {
		t.Errorf("actual = %+v, want observed 6", got)
	}
	if points[0].TheoreticalRemaining != 0 {
		t.Errorf("theoretical = %v, want 0", points[0].TheoreticalRemaining)
	}
}

func TestBurnDownAdjustmentsRaiseActualLine(t *testing.T) {
	points, err := BurnDown(BurnDownInput{
		InitialDate:    "2024-03-01",
		FinalDate:      "2024-03-02",
		DailyAllowance: 10,
		Expenses:       []DatedAmount{{Amount: 5, Date: "2024-03-01"}},
		Adjustments:    []DatedAmount{{Amount: 8, Date: "2024-03-02"}},
		Today:          utc(2024, time.March, 2),
	})
	if err != nil {
		t.Fatalf("BurnDown: %v", err)
	}
	// Day 0: 20 - 5 = 15. Day 1: 15 + 8 = 23.
	if got := points[1].ActualRemaining; !got.Observed || got.Value != 23 {
		t.Errorf("actual after adjustment = %+v, want observed 23", got)
	}
}

func TestBurnDownAdjustmentOnlyFutureDayIsObserved(t *testing.T) {
	// A recorded adjustment counts as an observation even on a future day.
	points, err := BurnDown(BurnDownInput{
		InitialDate:    "2024-03-01",
		FinalDate:      "2024-03-03",
		DailyAllowance: 10,
		Adjustments:    []DatedAmount{{Amount: -3, Date: "2024-03-02"}},
		Today:          utc(2024, time.March, 1),
	})
	if err != nil {
		t.Fatalf("BurnDown: %v", err)
	}
	if !points[1].ActualRemaining.Observed {
		t.Error("day with recorded adjustment must be observed")
	}
}

func TestBurnDownRejectsBadInput(t *testing.T) {
	t.Run("inverted_range", func(t *testing.T) {
		_, err := BurnDown(BurnDownInput{
			InitialDate:    "2024-03-10",
			FinalDate:      "2024-03-01",
			DailyAllowance: 10,
			Today:          utc(2024, time.March, 1),
		})
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})

	t.Run("negative_expense", func(t *testing.T) {
		_, err := BurnDown(BurnDownInput{
			InitialDate:    "2024-03-01",
			FinalDate:      "2024-03-03",
			DailyAllowance: 10,
			Expenses:       []DatedAmount{{Amount: -1, Date: "2024-03-01"}},
			Today:          utc(2024, time.March, 1),
		})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("negative_allowance", func(t *testing.T) {
		_, err := BurnDown(BurnDownInput{
			InitialDate:    "2024-03-01",
			FinalDate:      "2024-03-03",
			DailyAllowance: -10,
			Today:          utc(2024, time.March, 1),
		})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("unparseable_date", func(t *testing.T) {
		_, err := BurnDown(BurnDownInput{
			InitialDate:    "March 1st",
			FinalDate:      "2024-03-03",
			DailyAllowance: 10,
			Today:          utc(2024, time.March, 1),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
