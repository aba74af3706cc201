package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/eshaffer321/wealth-go/pkg/wealth"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestStackedBarPNG(t *testing.T) {
	stats := &wealth.BudgetStats{
		ExpenseBudgetSegments: wealth.BuildSegments([]wealth.CategoryAmount{
			{Name: "Food", Amount: 300},
			{Name: "Rent", Amount: 200},
		}, 500, wealth.DefaultPalette),
		IncomeBudgetSegments: wealth.BuildSegments([]wealth.CategoryAmount{
			{Name: "Salary", Amount: 1800},
			{Name: "Freelance", Amount: 200},
		}, 2000, wealth.DefaultPalette),
	}

	bars := StatsBars(stats)
	require.Len(t, bars, 2)
	assert.Equal(t, "Expenses", bars[0].Name)
	assert.Equal(t, "Income", bars[1].Name)

	img, err := StackedBarPNG(bars, Options{Title: "March 2024"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestStackedBarPNG_NoSegments(t *testing.T) {
	_, err := StackedBarPNG(StatsBars(wealth.EmptyStats()), Options{})
	assert.ErrorIs(t, err, ErrNoSegments)

	_, err = StackedBarPNG([]Bar{{Name: "Expenses", Segments: []wealth.Segment{{Name: "Zero"}}}}, Options{})
	assert.ErrorIs(t, err, ErrNoSegments)

	assert.Nil(t, StatsBars(nil))
}

func TestBarValues(t *testing.T) {
	values := barValues([]wealth.Segment{
		{Name: "Food", Amount: 300, Percentage: 60, Color: "#ef4444"},
		{Name: "Plain", Amount: 200, Percentage: 40},
		{Name: "Skipped", Amount: 0},
	})

	require.Len(t, values, 2)
	assert.Equal(t, 300.0, values[0].Value)
	assert.Contains(t, values[0].Label, "Food")
	assert.Equal(t, uint8(0xef), values[0].Style.FillColor.R)
	assert.Equal(t, drawing.Color{}, values[1].Style.FillColor)
}
