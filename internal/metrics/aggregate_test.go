package metrics

import (
	"math"
	"testing"

	"centavo/internal/testutil"
)

func TestAggregateByDay(t *testing.T) {
	t.Run("groups_and_sums_by_day_index", func(t *testing.T) {
		items := []DatedAmount{
			{Amount: 5, Date: "2024-03-01"},
			{Amount: 2, Date: "2024-03-01"},
			{Amount: 7, Date: "2024-03-03"},
		}
		totals, err := AggregateByDay(items, "2024-03-01", "2024-03-05")
		if err != nil {
			t.Fatalf("AggregateByDay: %v", err)
		}
		if totals[0] != 7 {
			t.Errorf("day 0 = %v, want 7", totals[0])
		}
		if totals[2] != 7 {
			t.Errorf("day 2 = %v, want 7", totals[2])
		}
		if _, ok := totals[1]; ok {
			t.Error("day 1 should have no entry")
		}
	})

	t.Run("clips_items_outside_range", func(t *testing.T) {
		items := []DatedAmount{
			{Amount: 5, Date: "2024-02-29"}, // before range
			{Amount: 3, Date: "2024-03-02"},
			{Amount: 9, Date: "2024-03-06"}, // after range
		}
		totals, err := AggregateByDay(items, "2024-03-01", "2024-03-05")
		if err != nil {
			t.Fatalf("AggregateByDay: %v", err)
		}
		if len(totals) != 1 {
			t.Errorf("len(totals) = %d, want 1", len(totals))
		}
		if totals[1] != 3 {
			t.Errorf("day 1 = %v, want 3", totals[1])
		}
	})

	t.Run("input_order_is_irrelevant", func(t *testing.T) {
		a := []DatedAmount{{Amount: 1, Date: "2024-03-02"}, {Amount: 2, Date: "2024-03-01"}}
		b := []DatedAmount{{Amount: 2, Date: "2024-03-01"}, {Amount: 1, Date: "2024-03-02"}}
		ta, err := AggregateByDay(a, "2024-03-01", "2024-03-02")
		if err != nil {
			t.Fatalf("AggregateByDay: %v", err)
		}
		tb, err := AggregateByDay(b, "2024-03-01", "2024-03-02")
		if err != nil {
			t.Fatalf("AggregateByDay: %v", err)
		}
		if ta[0] != tb[0] || ta[1] != tb[1] {
			t.Errorf("order changed totals: %v vs %v", ta, tb)
		}
	})

	t.Run("single_day_range", func(t *testing.T) {
		totals, err := AggregateByDay([]DatedAmount{{Amount: 4, Date: "2024-03-01"}}, "2024-03-01", "2024-03-01")
		if err != nil {
			t.Fatalf("AggregateByDay: %v", err)
		}
		if totals[0] != 4 {
			t.Errorf("day 0 = %v, want 4", totals[0])
		}
	})

	t.Run("rejects_inverted_range", func(t *testing.T) {
		_, err := AggregateByDay(nil, "2024-03-05", "2024-03-01")
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})

	t.Run("rejects_non_finite_amount", func(t *testing.T) {
		_, err := AggregateByDay([]DatedAmount{{Amount: math.NaN(), Date: "2024-03-01"}}, "2024-03-01", "2024-03-02")
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})
}

func TestSumAmounts(t *testing.T) {
	sum, err := SumAmounts([]DatedAmount{
		{Amount: 1.5, Date: "2024-03-01"},
		{Amount: 2.5, Date: "2024-03-02"},
	})
	if err != nil {
		t.Fatalf("SumAmounts: %v", err)
	}
	if sum != 4 {
		t.Errorf("sum = %v, want 4", sum)
	}

	_, err = SumAmounts([]DatedAmount{{Amount: -3, Date: "2024-03-01"}})
	testutil.AssertAppError(t, err, "INVALID_AMOUNT")

	_, err = SumAmounts([]DatedAmount{{Amount: math.Inf(1), Date: "2024-03-01"}})
	testutil.AssertAppError(t, err, "INVALID_AMOUNT")
}

func TestSumSignedAmounts(t *testing.T) {
	sum, err := SumSignedAmounts([]DatedAmount{
		{Amount: 10, Date: "2024-03-01"},
		{Amount: -4, Date: "2024-03-02"},
	})
	if err != nil {
		t.Fatalf("SumSignedAmounts: %v", err)
	}
	if sum != 6 {
		t.Errorf("sum = %v, want 6", sum)
	}

	_, err = SumSignedAmounts([]DatedAmount{{Amount: math.NaN(), Date: "2024-03-01"}})
	testutil.AssertAppError(t, err, "INVALID_AMOUNT")
}
