package main

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/wealth-go/pkg/wealth"
)

type stubCategories struct {
	mu     sync.Mutex
	ranges []string
}

func (s *stubCategories) Summary(ctx context.Context, start, end time.Time) (*wealth.CategorySummaryResponse, error) {
	s.mu.Lock()
	s.ranges = append(s.ranges, start.Format(wealth.DateLayout)+".."+end.Format(wealth.DateLayout))
	s.mu.Unlock()

	return &wealth.CategorySummaryResponse{
		Expense: &wealth.FlowSummary{Categories: []*wealth.CategorySummary{
			{Category: "Food", NetAmount: -300},
			{Category: "Rent", NetAmount: -200},
		}},
	}, nil
}

func TestBuildReport_Navigation(t *testing.T) {
	service := &stubCategories{}

	result, err := buildReport(context.Background(), service, reportRequest{
		Scope: wealth.ScopeMonth,
		Date:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Steps: -1,
		Type:  wealth.FlowExpense,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-02-01..2024-02-29"}, service.ranges)
	assert.Equal(t, "February 2024", result.Range.Label())
	assert.Equal(t, 500.0, result.Stats.TotalActual)
	assert.Equal(t, "Food", result.Stats.BiggestCategory.Name)
}

func TestBuildReport_CustomRange(t *testing.T) {
	service := &stubCategories{}

	result, err := buildReport(context.Background(), service, reportRequest{
		Scope: wealth.ScopeCustom,
		Date:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		From:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		To:    time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC),
		Type:  wealth.FlowExpense,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 10, result.Range.Days())
	assert.Equal(t, 50.0, result.Stats.DailyAverage.Amount)
}

func TestFlagValues_Request(t *testing.T) {
	conf := &Config{Report: ReportConfig{Scope: "quarter", Type: "expense"}}
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	req, err := flagValues{}.request(conf, now)
	require.NoError(t, err)
	assert.Equal(t, wealth.ScopeQuarter, req.Scope)
	assert.Equal(t, now, req.Date)

	req, err = flagValues{from: "2024-01-01", to: "2024-01-07", flow: "income"}.request(conf, now)
	require.NoError(t, err)
	assert.Equal(t, wealth.ScopeCustom, req.Scope)
	assert.Equal(t, wealth.FlowIncome, req.Type)

	_, err = flagValues{flow: "savings"}.request(conf, now)
	assert.ErrorIs(t, err, wealth.ErrInvalidInput)

	_, err = flagValues{date: "15/03/2024"}.request(conf, now)
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	stats := wealth.DeriveStats(&wealth.CategorySummaryResponse{
		Expense: &wealth.FlowSummary{Categories: []*wealth.CategorySummary{
			{Category: "Food", NetAmount: -300},
			{Category: "Rent", NetAmount: -200},
		}},
	}, wealth.FlowExpense, mustMonth(t), nil, wealth.DefaultPalette)

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, wealth.AggregateResult{
		Stats: stats,
		Type:  wealth.FlowExpense,
		Range: mustMonth(t),
	}))

	out := buf.String()
	assert.Contains(t, out, "Expenses, March 2024")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, wealth.FormatEUR(500))
	assert.Contains(t, out, wealth.FormatPercent(60))
	assert.NotContains(t, out, "vs previous")
}

func mustMonth(t *testing.T) wealth.DateRange {
	t.Helper()
	r, err := wealth.RangeFor(wealth.ScopeMonth, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return r
}
