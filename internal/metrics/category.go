package metrics

import (
	"math"
	"sort"

	apperrors "centavo/internal/errors"
)

// UncategorizedName is the display name used when an expense has no
// category reference.
const UncategorizedName = "Uncategorized"

// AggregateByCategory sums expense amounts grouped by category name and
// returns the totals sorted descending by total, the largest spending
// categories first. Ties break alphabetically so identical inputs always
// produce identical output. Missing category names fall back to
// UncategorizedName.
func AggregateByCategory(items []CategoryAmount) ([]CategoryTotal, error) {
	totals := make(map[string]float64, len(items))
	for _, it := range items {
		if it.Amount < 0 || math.IsNaN(it.Amount) || math.IsInf(it.Amount, 0) {
			return nil, apperrors.ErrInvalidAmount
		}
		name := it.Category
		if name == "" {
			name = UncategorizedName
		}
		totals[name] += it.Amount
	}

	result := make([]CategoryTotal, 0, len(totals))
	for name, total := range totals {
		result = append(result, CategoryTotal{Name: name, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}
