package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/eshaffer321/wealth-go/pkg/wealth"
)

// reportRequest selects the window and side a report covers
type reportRequest struct {
	Scope    wealth.Scope
	Date     time.Time
	From, To time.Time
	Steps    int
	Type     wealth.FlowType
	Compare  bool
}

// buildReport positions a DateRangeState, lets an aggregator follow it and
// returns the settled result
func buildReport(ctx context.Context, service wealth.CategoryService, req reportRequest, logger wealth.Logger) (wealth.AggregateResult, error) {
	state, err := wealth.NewDateRangeState(req.Scope, req.Date)
	if err != nil {
		return wealth.AggregateResult{}, err
	}

	if req.Scope == wealth.ScopeCustom && !req.From.IsZero() {
		to := req.To
		if to.IsZero() {
			to = req.From
		}
		if err := state.SetRange(req.From, to); err != nil {
			return wealth.AggregateResult{}, err
		}
	}

	dir, steps := wealth.Next, req.Steps
	if steps < 0 {
		dir, steps = wealth.Prev, -steps
	}
	for i := 0; i < steps; i++ {
		if err := state.Navigate(dir); err != nil {
			return wealth.AggregateResult{}, err
		}
	}

	agg := wealth.NewCategoryAggregator(service, &wealth.AggregatorOptions{
		Type:    req.Type,
		Compare: req.Compare,
		Logger:  logger,
	})
	agg.Attach(ctx, state)
	defer agg.Detach()
	agg.Wait()

	result := agg.Snapshot()
	return result, result.Err
}

// writeReport prints result as an aligned table
func writeReport(w io.Writer, result wealth.AggregateResult) error {
	stats := result.Stats
	if stats == nil {
		stats = wealth.EmptyStats()
	}

	title := "Expenses"
	segments := stats.ExpenseBudgetSegments
	if result.Type == wealth.FlowIncome {
		title = "Income"
		segments = stats.IncomeBudgetSegments
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s, %s\t\n", title, result.Range.Label())
	fmt.Fprintf(tw, "Budgeted\t%s\t\n", wealth.FormatEUR(stats.TotalBudgeted))
	fmt.Fprintf(tw, "Actual\t%s\t\n", wealth.FormatEUR(stats.TotalActual))
	fmt.Fprintf(tw, "Remaining\t%s\t\n", wealth.FormatEUR(stats.Remaining))
	fmt.Fprintf(tw, "Used\t%s\t\n", wealth.FormatPercent(stats.UsedPercentage))

	biggest := stats.BiggestCategory
	if biggest.Name != "" {
		fmt.Fprintf(tw, "Biggest\t%s %s (%s)\t%s\n",
			biggest.Name,
			wealth.FormatEUR(biggest.Amount),
			wealth.FormatPercent(biggest.Percentage),
			comparison(biggest.HasComparison, biggest.Difference))
	}

	daily := stats.DailyAverage
	fmt.Fprintf(tw, "Daily average\t%s\t%s\n",
		wealth.FormatEUR(daily.Amount),
		comparison(daily.HasComparison, daily.Difference))

	if len(segments) > 0 {
		fmt.Fprintf(tw, "\t\t\n")
		for _, seg := range segments {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", seg.Name, wealth.FormatEUR(seg.Amount), wealth.FormatPercent(seg.Percentage))
		}
	}

	return tw.Flush()
}

func comparison(ok bool, diff float64) string {
	if !ok {
		return ""
	}
	sign := "+"
	if diff < 0 {
		sign = ""
	}
	return sign + wealth.FormatEUR(diff) + " vs previous"
}
