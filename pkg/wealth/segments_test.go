package wealth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSegments(t *testing.T) {
	palette := []string{"red", "blue"}

	tests := []struct {
		name       string
		categories []CategoryAmount
		total      float64
		palette    []string
		want       []Segment
	}{
		{
			name:  "empty input",
			total: 0,
			want:  []Segment{},
		},
		{
			name:       "equal halves keep input order",
			categories: []CategoryAmount{{Name: "A", Amount: 50}, {Name: "B", Amount: 50}},
			total:      100,
			palette:    palette,
			want: []Segment{
				{Name: "A", Amount: 50, Percentage: 50, Color: "red"},
				{Name: "B", Amount: 50, Percentage: 50, Color: "blue"},
			},
		},
		{
			name:       "zero amount filtered",
			categories: []CategoryAmount{{Name: "A", Amount: 0}},
			total:      100,
			palette:    palette,
			want:       []Segment{},
		},
		{
			name: "sorted descending with cyclic colors",
			categories: []CategoryAmount{
				{Name: "Small", Amount: 10},
				{Name: "Large", Amount: 60},
				{Name: "Medium", Amount: 30},
			},
			total:   100,
			palette: palette,
			want: []Segment{
				{Name: "Large", Amount: 60, Percentage: 60, Color: "red"},
				{Name: "Medium", Amount: 30, Percentage: 30, Color: "blue"},
				{Name: "Small", Amount: 10, Percentage: 10, Color: "red"},
			},
		},
		{
			name:       "zero total gives zero percentages",
			categories: []CategoryAmount{{Name: "A", Amount: 25}},
			total:      0,
			palette:    palette,
			want:       []Segment{{Name: "A", Amount: 25, Percentage: 0, Color: "red"}},
		},
		{
			name: "malformed amounts coerced and dropped",
			categories: []CategoryAmount{
				{Name: "NaN", Amount: math.NaN()},
				{Name: "Inf", Amount: math.Inf(1)},
				{Name: "Negative", Amount: -40},
				{Name: "Ok", Amount: 20},
			},
			total:   80,
			palette: palette,
			want:    []Segment{{Name: "Ok", Amount: 20, Percentage: 25, Color: "red"}},
		},
		{
			name:       "empty palette leaves color blank",
			categories: []CategoryAmount{{Name: "A", Amount: 5}},
			total:      10,
			want:       []Segment{{Name: "A", Amount: 5, Percentage: 50}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSegments(tt.categories, tt.total, tt.palette)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSegments_PercentagesNeverExceedHundred(t *testing.T) {
	categories := []CategoryAmount{{Name: "A", Amount: 70}, {Name: "B", Amount: 50}}

	// Caller passes a total smaller than the amounts it describes
	segments := BuildSegments(categories, 100, DefaultPalette)

	require.Len(t, segments, 2)
	sum := 0.0
	for _, s := range segments {
		assert.False(t, math.IsNaN(s.Percentage))
		sum += s.Percentage
	}
	assert.InDelta(t, 100, sum, 1e-9)
	assert.InDelta(t, 58.333, segments[0].Percentage, 0.001)
}

func TestBuildSegments_DoesNotMutateInput(t *testing.T) {
	categories := []CategoryAmount{{Name: "A", Amount: 1}, {Name: "B", Amount: 2}}

	_ = BuildSegments(categories, 3, DefaultPalette)

	assert.Equal(t, "A", categories[0].Name)
	assert.Equal(t, "B", categories[1].Name)
}
