package wealth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marchSummary() *CategorySummaryResponse {
	return (&CategorySummaryResponse{
		Income: &FlowSummary{
			Total: FlowTotal{Net: 2000},
			Categories: []*CategorySummary{
				{Category: "Salary", NetAmount: 1800},
				{Category: "Refunds", NetAmount: 200},
			},
		},
		Expense: &FlowSummary{
			Total: FlowTotal{Net: -500},
			Categories: []*CategorySummary{
				{Category: "Food", NetAmount: -300},
				{Category: "Rent", NetAmount: -200},
			},
		},
	}).Normalize()
}

func TestDeriveStats_MarchScenario(t *testing.T) {
	march, err := RangeFor(ScopeMonth, day(2024, 3, 1))
	require.NoError(t, err)

	stats := DeriveStats(marchSummary(), FlowExpense, march, nil, []string{"red", "blue"})

	assert.Equal(t, 500.0, stats.TotalActual)
	assert.Equal(t, "Food", stats.BiggestCategory.Name)
	assert.Equal(t, 300.0, stats.BiggestCategory.Amount)
	assert.InDelta(t, 60.0, stats.BiggestCategory.Percentage, 1e-9)
	assert.InDelta(t, 16.13, stats.DailyAverage.Amount, 0.005)

	// No budget assigned
	assert.Equal(t, 0.0, stats.TotalBudgeted)
	assert.Equal(t, 0.0, stats.UsedPercentage)
	assert.False(t, math.IsNaN(stats.UsedPercentage))
	assert.Equal(t, -500.0, stats.Remaining)

	// No comparison data
	assert.False(t, stats.BiggestCategory.HasComparison)
	assert.False(t, stats.DailyAverage.HasComparison)
	assert.Equal(t, 0.0, stats.BiggestCategory.Difference)
	assert.Equal(t, 0.0, stats.DailyAverage.Difference)

	require.Len(t, stats.ExpenseBudgetSegments, 2)
	assert.Equal(t, Segment{Name: "Food", Amount: 300, Percentage: 60, Color: "red"}, stats.ExpenseBudgetSegments[0])
	assert.Equal(t, Segment{Name: "Rent", Amount: 200, Percentage: 40, Color: "blue"}, stats.ExpenseBudgetSegments[1])

	require.Len(t, stats.IncomeBudgetSegments, 2)
	assert.Equal(t, "Salary", stats.IncomeBudgetSegments[0].Name)
	assert.InDelta(t, 90.0, stats.IncomeBudgetSegments[0].Percentage, 1e-9)
}

func TestDeriveStats_IncomeSide(t *testing.T) {
	march, _ := RangeFor(ScopeMonth, day(2024, 3, 1))

	stats := DeriveStats(marchSummary(), FlowIncome, march, nil, DefaultPalette)

	assert.Equal(t, 2000.0, stats.TotalActual)
	assert.Equal(t, "Salary", stats.BiggestCategory.Name)
	// Segments for both sides are always present
	assert.Len(t, stats.ExpenseBudgetSegments, 2)
}

func TestDeriveStats_Budget(t *testing.T) {
	r := CustomRange(day(2024, 3, 1), day(2024, 3, 1))

	tests := []struct {
		name          string
		categories    []*CategorySummary
		wantBudgeted  float64
		wantUsed      float64
		wantRemaining float64
	}{
		{
			name: "under budget",
			categories: []*CategorySummary{
				{Category: "Food", NetAmount: -150, Budget: 200},
				{Category: "Rent", NetAmount: -50, Budget: 200},
			},
			wantBudgeted:  400,
			wantUsed:      50,
			wantRemaining: 200,
		},
		{
			name: "overspend clamps used percentage",
			categories: []*CategorySummary{
				{Category: "Food", NetAmount: -300, Budget: 100},
			},
			wantBudgeted:  100,
			wantUsed:      100,
			wantRemaining: -200,
		},
		{
			name: "zero budget",
			categories: []*CategorySummary{
				{Category: "Food", NetAmount: -300},
			},
			wantBudgeted:  0,
			wantUsed:      0,
			wantRemaining: -300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := (&CategorySummaryResponse{Expense: &FlowSummary{Categories: tt.categories}}).Normalize()

			stats := DeriveStats(summary, FlowExpense, r, nil, DefaultPalette)

			assert.Equal(t, tt.wantBudgeted, stats.TotalBudgeted)
			assert.InDelta(t, tt.wantUsed, stats.UsedPercentage, 1e-9)
			assert.Equal(t, tt.wantRemaining, stats.Remaining)
		})
	}
}

func TestDeriveStats_BiggestCategoryTieKeepsFirst(t *testing.T) {
	summary := (&CategorySummaryResponse{Expense: &FlowSummary{Categories: []*CategorySummary{
		{Category: "Travel", NetAmount: -100},
		{Category: "Food", NetAmount: 100},
		{Category: "Books", NetAmount: -20},
	}}}).Normalize()

	stats := DeriveStats(summary, FlowExpense, CustomRange(day(2024, 3, 1), day(2024, 3, 2)), nil, DefaultPalette)

	assert.Equal(t, "Travel", stats.BiggestCategory.Name)
	assert.Equal(t, 110.0, stats.DailyAverage.Amount)
}

func TestDeriveStats_Comparison(t *testing.T) {
	march, _ := RangeFor(ScopeMonth, day(2024, 3, 1))
	previous := (&CategorySummaryResponse{Expense: &FlowSummary{Categories: []*CategorySummary{
		{Category: "Food", NetAmount: -200},
		{Category: "Rent", NetAmount: -110},
	}}}).Normalize()

	stats := DeriveStats(marchSummary(), FlowExpense, march, previous, DefaultPalette)

	assert.True(t, stats.BiggestCategory.HasComparison)
	assert.Equal(t, 100.0, stats.BiggestCategory.Difference)

	assert.True(t, stats.DailyAverage.HasComparison)
	assert.InDelta(t, 190.0/31, stats.DailyAverage.Difference, 1e-9)
	assert.InDelta(t, 190.0/310*100, stats.DailyAverage.Percentage, 1e-9)
}

func TestDeriveStats_ComparisonWithEmptyPriorPeriod(t *testing.T) {
	march, _ := RangeFor(ScopeMonth, day(2024, 3, 1))

	stats := DeriveStats(marchSummary(), FlowExpense, march, (&CategorySummaryResponse{}).Normalize(), DefaultPalette)

	assert.True(t, stats.DailyAverage.HasComparison)
	assert.Equal(t, 0.0, stats.DailyAverage.Percentage)
	assert.Equal(t, 300.0, stats.BiggestCategory.Difference)
}

func TestDeriveStats_EmptyAndNil(t *testing.T) {
	r := CustomRange(day(2024, 3, 1), day(2024, 3, 31))

	stats := DeriveStats(nil, FlowExpense, r, nil, DefaultPalette)
	require.NotNil(t, stats)
	assert.NotNil(t, stats.ExpenseBudgetSegments)
	assert.NotNil(t, stats.IncomeBudgetSegments)

	stats = DeriveStats((&CategorySummaryResponse{}).Normalize(), FlowExpense, r, nil, DefaultPalette)
	assert.Equal(t, 0.0, stats.TotalActual)
	assert.Equal(t, 0.0, stats.BiggestCategory.Percentage)
	assert.Equal(t, 0.0, stats.DailyAverage.Amount)
	assert.Empty(t, stats.BiggestCategory.Name)
}
