package wealth

import (
	"time"
)

// FlowType selects the income or expense side of a category summary
type FlowType string

const (
	FlowIncome  FlowType = "income"
	FlowExpense FlowType = "expense"
)

// Valid reports whether t is a known flow type
func (t FlowType) Valid() bool {
	return t == FlowIncome || t == FlowExpense
}

// Subcategory is a per-subcategory line of a category summary
type Subcategory struct {
	Subcategory    string  `json:"subcategory"`
	NetAmount      float64 `json:"net_amount"`
	OriginalAmount float64 `json:"original_amount"`
}

// CategorySummary is a read-only snapshot of one category for a date range
type CategorySummary struct {
	Category       string         `json:"category"`
	NetAmount      float64        `json:"net_amount"`
	OriginalAmount float64        `json:"original_amount"`
	Budget         float64        `json:"budget"`
	Subcategories  []*Subcategory `json:"subcategories"`
}

// FlowTotal holds the server-side total of a flow
type FlowTotal struct {
	Net float64 `json:"net"`
}

// FlowSummary is one side (income or expense) of the summary response
type FlowSummary struct {
	Total      FlowTotal          `json:"total"`
	Categories []*CategorySummary `json:"categories"`
}

// CategorySummaryResponse is the payload of GET /categories/summary
type CategorySummaryResponse struct {
	StartDate Date         `json:"start_date"`
	EndDate   Date         `json:"end_date"`
	Income    *FlowSummary `json:"income"`
	Expense   *FlowSummary `json:"expense"`
}

// Flow returns the requested side of the summary, never nil
func (r *CategorySummaryResponse) Flow(t FlowType) *FlowSummary {
	if r == nil {
		return &FlowSummary{}
	}
	if t == FlowIncome && r.Income != nil {
		return r.Income
	}
	if t == FlowExpense && r.Expense != nil {
		return r.Expense
	}
	return &FlowSummary{}
}

// Normalize substitutes defaults for missing fields so callers never see nil
// sides, nil categories or non-finite amounts
func (r *CategorySummaryResponse) Normalize() *CategorySummaryResponse {
	if r == nil {
		r = &CategorySummaryResponse{}
	}
	r.Income = normalizeFlow(r.Income)
	r.Expense = normalizeFlow(r.Expense)
	return r
}

func normalizeFlow(f *FlowSummary) *FlowSummary {
	if f == nil {
		return &FlowSummary{Categories: []*CategorySummary{}}
	}
	f.Total.Net = finiteOrZero(f.Total.Net)

	categories := make([]*CategorySummary, 0, len(f.Categories))
	for _, c := range f.Categories {
		if c == nil {
			continue
		}
		c.NetAmount = finiteOrZero(c.NetAmount)
		c.OriginalAmount = finiteOrZero(c.OriginalAmount)
		c.Budget = finiteOrZero(c.Budget)
		if c.Subcategories == nil {
			c.Subcategories = []*Subcategory{}
		}
		categories = append(categories, c)
	}
	f.Categories = categories
	return f
}

// CategoryAmount is the input of BuildSegments
type CategoryAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Segment is a proportional slice of a total attributed to one category
type Segment struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// BiggestCategory describes the category with the largest absolute net amount
type BiggestCategory struct {
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	Percentage    float64 `json:"percentage"`
	Difference    float64 `json:"difference"`
	HasComparison bool    `json:"hasComparison"`
}

// DailyAverage is the per-day spend (or income) over the range
type DailyAverage struct {
	Amount        float64 `json:"amount"`
	Difference    float64 `json:"difference"`
	Percentage    float64 `json:"percentage"`
	HasComparison bool    `json:"hasComparison"`
}

// BudgetStats is derived state recomputed on every input change
type BudgetStats struct {
	TotalBudgeted         float64         `json:"totalBudgeted"`
	TotalActual           float64         `json:"totalActual"`
	Remaining             float64         `json:"remaining"`
	UsedPercentage        float64         `json:"usedPercentage"`
	BiggestCategory       BiggestCategory `json:"biggestCategory"`
	DailyAverage          DailyAverage    `json:"dailyAverage"`
	ExpenseBudgetSegments []Segment       `json:"expenseBudgetSegments"`
	IncomeBudgetSegments  []Segment       `json:"incomeBudgetSegments"`
}

// EmptyStats returns zeroed stats with non-nil segment slices
func EmptyStats() *BudgetStats {
	return &BudgetStats{
		ExpenseBudgetSegments: []Segment{},
		IncomeBudgetSegments:  []Segment{},
	}
}

// Session represents a locally cached bearer token
type Session struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expiresAt"`
	DeviceUUID string    `json:"deviceUuid"`
}
