package main

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/eshaffer321/wealth-go/pkg/wealth"
)

// wealthTools holds the category service and implements all tool handlers
type wealthTools struct {
	categories wealth.CategoryService
	logger     wealth.Logger
}

func newWealthTools(categories wealth.CategoryService, logger wealth.Logger) *wealthTools {
	return &wealthTools{categories: categories, logger: logger}
}

// windowInput selects a reporting window; each tool input repeats its fields
type windowInput struct {
	Scope     string `json:"scope,omitempty" jsonschema:"month, quarter, year or custom (default: month)"`
	Date      string `json:"date,omitempty" jsonschema:"Any date inside the window in YYYY-MM-DD format (default: today)"`
	StartDate string `json:"startDate,omitempty" jsonschema:"Custom range start in YYYY-MM-DD format"`
	EndDate   string `json:"endDate,omitempty" jsonschema:"Custom range end in YYYY-MM-DD format"`
	Type      string `json:"type,omitempty" jsonschema:"income or expense (default: expense)"`
}

// window resolves the input into a date range and flow type
func (in windowInput) window(now time.Time) (wealth.DateRange, wealth.FlowType, error) {
	flow := wealth.FlowExpense
	if in.Type != "" {
		flow = wealth.FlowType(in.Type)
		if !flow.Valid() {
			return wealth.DateRange{}, "", fmt.Errorf("invalid type %q (expected income or expense)", in.Type)
		}
	}

	if in.StartDate != "" {
		start, err := wealth.ParseDate(in.StartDate)
		if err != nil {
			return wealth.DateRange{}, "", err
		}
		end := start
		if in.EndDate != "" {
			if end, err = wealth.ParseDate(in.EndDate); err != nil {
				return wealth.DateRange{}, "", err
			}
		}
		if end.Before(start) {
			return wealth.DateRange{}, "", fmt.Errorf("endDate %s is before startDate %s", in.EndDate, in.StartDate)
		}
		return wealth.CustomRange(start, end), flow, nil
	}

	scope := wealth.ScopeMonth
	if in.Scope != "" {
		parsed, err := wealth.ParseScope(in.Scope)
		if err != nil {
			return wealth.DateRange{}, "", err
		}
		scope = parsed
	}

	anchor := now
	if in.Date != "" {
		parsed, err := wealth.ParseDate(in.Date)
		if err != nil {
			return wealth.DateRange{}, "", err
		}
		anchor = parsed
	}

	r, err := wealth.RangeFor(scope, anchor)
	return r, flow, err
}

// GetBudgetStats tool - derived budget statistics for a window
type GetBudgetStatsInput struct {
	Scope     string `json:"scope,omitempty" jsonschema:"month, quarter, year or custom (default: month)"`
	Date      string `json:"date,omitempty" jsonschema:"Any date inside the window in YYYY-MM-DD format (default: today)"`
	StartDate string `json:"startDate,omitempty" jsonschema:"Custom range start in YYYY-MM-DD format"`
	EndDate   string `json:"endDate,omitempty" jsonschema:"Custom range end in YYYY-MM-DD format"`
	Type      string `json:"type,omitempty" jsonschema:"income or expense (default: expense)"`
	Compare   bool   `json:"compare,omitempty" jsonschema:"Compare with the previous period of the same length"`
}

type GetBudgetStatsOutput struct {
	Period    string              `json:"period" jsonschema:"Human readable period, e.g. March 2024"`
	StartDate string              `json:"startDate" jsonschema:"First day of the period"`
	EndDate   string              `json:"endDate" jsonschema:"Last day of the period"`
	Type      string              `json:"type" jsonschema:"income or expense"`
	Stats     *wealth.BudgetStats `json:"stats" jsonschema:"Budget statistics for the period"`
	Formatted map[string]string   `json:"formatted" jsonschema:"Key amounts formatted in euros"`
}

func (t *wealthTools) GetBudgetStats(ctx context.Context, req *mcp.CallToolRequest, input GetBudgetStatsInput) (*mcp.CallToolResult, GetBudgetStatsOutput, error) {
	result, flow, err := t.fetch(ctx, windowInput{input.Scope, input.Date, input.StartDate, input.EndDate, input.Type}, input.Compare)
	if err != nil {
		return nil, GetBudgetStatsOutput{}, err
	}

	stats := result.Stats
	return nil, GetBudgetStatsOutput{
		Period:    result.Range.Label(),
		StartDate: result.Range.Start.Format(wealth.DateLayout),
		EndDate:   result.Range.End.Format(wealth.DateLayout),
		Type:      string(flow),
		Stats:     stats,
		Formatted: map[string]string{
			"totalBudgeted":   wealth.FormatEUR(stats.TotalBudgeted),
			"totalActual":     wealth.FormatEUR(stats.TotalActual),
			"remaining":       wealth.FormatEUR(stats.Remaining),
			"usedPercentage":  wealth.FormatPercent(stats.UsedPercentage),
			"biggestCategory": wealth.FormatEUR(stats.BiggestCategory.Amount),
			"dailyAverage":    wealth.FormatEUR(stats.DailyAverage.Amount),
		},
	}, nil
}

// GetBudgetSegments tool - stacked bar segments for one side
type GetBudgetSegmentsInput struct {
	Scope     string `json:"scope,omitempty" jsonschema:"month, quarter, year or custom (default: month)"`
	Date      string `json:"date,omitempty" jsonschema:"Any date inside the window in YYYY-MM-DD format (default: today)"`
	StartDate string `json:"startDate,omitempty" jsonschema:"Custom range start in YYYY-MM-DD format"`
	EndDate   string `json:"endDate,omitempty" jsonschema:"Custom range end in YYYY-MM-DD format"`
	Type      string `json:"type,omitempty" jsonschema:"income or expense (default: expense)"`
}

type GetBudgetSegmentsOutput struct {
	Period   string           `json:"period" jsonschema:"Human readable period"`
	Type     string           `json:"type" jsonschema:"income or expense"`
	Segments []wealth.Segment `json:"segments" jsonschema:"Segments sorted by amount, largest first"`
	Count    int              `json:"count" jsonschema:"Number of segments"`
}

func (t *wealthTools) GetBudgetSegments(ctx context.Context, req *mcp.CallToolRequest, input GetBudgetSegmentsInput) (*mcp.CallToolResult, GetBudgetSegmentsOutput, error) {
	result, flow, err := t.fetch(ctx, windowInput(input), false)
	if err != nil {
		return nil, GetBudgetSegmentsOutput{}, err
	}

	segments := result.Stats.ExpenseBudgetSegments
	if flow == wealth.FlowIncome {
		segments = result.Stats.IncomeBudgetSegments
	}

	return nil, GetBudgetSegmentsOutput{
		Period:   result.Range.Label(),
		Type:     string(flow),
		Segments: segments,
		Count:    len(segments),
	}, nil
}

// GetCategorySummary tool - raw summary for a window
type GetCategorySummaryInput struct {
	StartDate string `json:"startDate" jsonschema:"Range start in YYYY-MM-DD format"`
	EndDate   string `json:"endDate,omitempty" jsonschema:"Range end in YYYY-MM-DD format (default: startDate)"`
}

type CategoryEntry struct {
	Category      string             `json:"category" jsonschema:"Category name"`
	NetAmount     float64            `json:"netAmount" jsonschema:"Net amount, negative for spending"`
	Budget        float64            `json:"budget" jsonschema:"Assigned budget"`
	Subcategories []SubcategoryEntry `json:"subcategories,omitempty" jsonschema:"Subcategory breakdown"`
}

type SubcategoryEntry struct {
	Subcategory string  `json:"subcategory" jsonschema:"Subcategory name"`
	NetAmount   float64 `json:"netAmount" jsonschema:"Net amount"`
}

type GetCategorySummaryOutput struct {
	StartDate    string          `json:"startDate" jsonschema:"First day of the range"`
	EndDate      string          `json:"endDate" jsonschema:"Last day of the range"`
	IncomeTotal  float64         `json:"incomeTotal" jsonschema:"Net income total"`
	ExpenseTotal float64         `json:"expenseTotal" jsonschema:"Net expense total"`
	Income       []CategoryEntry `json:"income" jsonschema:"Income categories"`
	Expense      []CategoryEntry `json:"expense" jsonschema:"Expense categories"`
}

func (t *wealthTools) GetCategorySummary(ctx context.Context, req *mcp.CallToolRequest, input GetCategorySummaryInput) (*mcp.CallToolResult, GetCategorySummaryOutput, error) {
	r, _, err := windowInput{StartDate: input.StartDate, EndDate: input.EndDate}.window(time.Now())
	if err != nil {
		return nil, GetCategorySummaryOutput{}, err
	}

	summary, err := t.categories.Summary(ctx, r.Start, r.End)
	if err != nil {
		return nil, GetCategorySummaryOutput{}, fmt.Errorf("failed to fetch category summary: %w", err)
	}

	income := summary.Flow(wealth.FlowIncome)
	expense := summary.Flow(wealth.FlowExpense)

	return nil, GetCategorySummaryOutput{
		StartDate:    r.Start.Format(wealth.DateLayout),
		EndDate:      r.End.Format(wealth.DateLayout),
		IncomeTotal:  income.Total.Net,
		ExpenseTotal: expense.Total.Net,
		Income:       categoryEntries(income.Categories),
		Expense:      categoryEntries(expense.Categories),
	}, nil
}

func categoryEntries(categories []*wealth.CategorySummary) []CategoryEntry {
	entries := make([]CategoryEntry, 0, len(categories))
	for _, c := range categories {
		entry := CategoryEntry{
			Category:  c.Category,
			NetAmount: c.NetAmount,
			Budget:    c.Budget,
		}
		for _, sub := range c.Subcategories {
			entry.Subcategories = append(entry.Subcategories, SubcategoryEntry{
				Subcategory: sub.Subcategory,
				NetAmount:   sub.NetAmount,
			})
		}
		entries = append(entries, entry)
	}
	return entries
}

// fetch derives stats for the window. Each call gets its own aggregator so
// concurrent tool calls never supersede each other.
func (t *wealthTools) fetch(ctx context.Context, input windowInput, compare bool) (wealth.AggregateResult, wealth.FlowType, error) {
	r, flow, err := input.window(time.Now())
	if err != nil {
		return wealth.AggregateResult{}, "", err
	}

	agg := wealth.NewCategoryAggregator(t.categories, &wealth.AggregatorOptions{
		Type:    flow,
		Compare: compare,
		Logger:  t.logger,
	})
	if err := agg.FetchRange(ctx, r); err != nil {
		return wealth.AggregateResult{}, "", fmt.Errorf("failed to fetch budget stats: %w", err)
	}

	return agg.Snapshot(), flow, nil
}
