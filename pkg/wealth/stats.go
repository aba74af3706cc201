package wealth

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DeriveStats computes BudgetStats for one side of a summary over r.
//
// comparison, when non-nil, is the summary of the prior equal-length window
// and fills in the differences; otherwise differences stay 0 and
// HasComparison is false.
func DeriveStats(summary *CategorySummaryResponse, flow FlowType, r DateRange, comparison *CategorySummaryResponse, palette []string) *BudgetStats {
	stats := EmptyStats()
	if summary == nil {
		return stats
	}
	if !flow.Valid() {
		flow = FlowExpense
	}

	categories := summary.Flow(flow).Categories

	budgeted := decimal.Zero
	actual := decimal.Zero
	biggestIdx := -1
	biggestAmount := decimal.Zero
	for i, c := range categories {
		if c == nil {
			continue
		}
		budgeted = budgeted.Add(decimal.NewFromFloat(finiteOrZero(c.Budget)))
		amount := absAmount(c.NetAmount)
		actual = actual.Add(amount)
		// Strictly greater keeps the first category on ties
		if biggestIdx < 0 || amount.GreaterThan(biggestAmount) {
			biggestIdx = i
			biggestAmount = amount
		}
	}

	stats.TotalBudgeted = budgeted.InexactFloat64()
	stats.TotalActual = actual.InexactFloat64()
	stats.Remaining = budgeted.Sub(actual).InexactFloat64()
	stats.UsedPercentage = usedPercentage(budgeted, actual)

	if biggestIdx >= 0 {
		stats.BiggestCategory = BiggestCategory{
			Name:       categories[biggestIdx].Category,
			Amount:     biggestAmount.InexactFloat64(),
			Percentage: ratioPercent(biggestAmount, actual),
		}
	}

	days := r.Days()
	daily := dailyAmount(actual, days)
	stats.DailyAverage = DailyAverage{Amount: daily.InexactFloat64()}

	if comparison != nil {
		prevCategories := comparison.Flow(flow).Categories

		prevActual := decimal.Zero
		prevBiggest := decimal.Zero
		for _, c := range prevCategories {
			if c == nil {
				continue
			}
			amount := absAmount(c.NetAmount)
			prevActual = prevActual.Add(amount)
			if biggestIdx >= 0 && c.Category == stats.BiggestCategory.Name {
				prevBiggest = prevBiggest.Add(amount)
			}
		}

		if biggestIdx >= 0 {
			stats.BiggestCategory.Difference = biggestAmount.Sub(prevBiggest).InexactFloat64()
			stats.BiggestCategory.HasComparison = true
		}

		// Prior window has the same length by construction
		prevDaily := dailyAmount(prevActual, days)
		diff := daily.Sub(prevDaily)
		stats.DailyAverage.Difference = diff.InexactFloat64()
		stats.DailyAverage.Percentage = ratioPercent(diff, prevDaily)
		stats.DailyAverage.HasComparison = true
	}

	stats.ExpenseBudgetSegments = flowSegments(summary.Flow(FlowExpense), palette)
	stats.IncomeBudgetSegments = flowSegments(summary.Flow(FlowIncome), palette)

	return stats
}

// flowSegments builds segments of absolute net amounts against the flow's
// actual total
func flowSegments(f *FlowSummary, palette []string) []Segment {
	amounts := make([]CategoryAmount, 0, len(f.Categories))
	total := decimal.Zero
	for _, c := range f.Categories {
		if c == nil {
			continue
		}
		amount := absAmount(c.NetAmount)
		total = total.Add(amount)
		amounts = append(amounts, CategoryAmount{Name: c.Category, Amount: amount.InexactFloat64()})
	}
	return BuildSegments(amounts, total.InexactFloat64(), palette)
}

// usedPercentage is actual/budgeted*100 clamped to [0, 100]; 0 without a budget
func usedPercentage(budgeted, actual decimal.Decimal) float64 {
	if !budgeted.IsPositive() {
		return 0
	}
	used := actual.Div(budgeted).Mul(hundred)
	if used.GreaterThan(hundred) {
		return 100
	}
	if used.IsNegative() {
		return 0
	}
	return used.InexactFloat64()
}

// ratioPercent is part/total*100, or 0 when total is zero
func ratioPercent(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(hundred).InexactFloat64()
}

func dailyAmount(total decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(days)))
}

func absAmount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(finiteOrZero(v)).Abs()
}
