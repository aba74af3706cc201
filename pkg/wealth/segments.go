package wealth

import (
	"math"
	"sort"
)

// DefaultPalette colors stacked-bar segments in descending order of amount
var DefaultPalette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#64748B",
}

// BuildSegments turns category amounts into percentage-of-total segments.
//
// Zero amounts are dropped and NaN, infinite or negative amounts are treated
// as zero. Segments are sorted by amount, largest first, keeping input order
// for ties, and colored from palette by sorted index. Percentage is
// amount/total*100, except that a total smaller than the sum of the amounts
// is replaced by that sum, so percentages never add up to more than 100.
func BuildSegments(categories []CategoryAmount, total float64, palette []string) []Segment {
	segments := make([]Segment, 0, len(categories))
	sum := 0.0
	for _, c := range categories {
		amount := finiteOrZero(c.Amount)
		if amount <= 0 {
			continue
		}
		sum += amount
		segments = append(segments, Segment{Name: c.Name, Amount: amount})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Amount > segments[j].Amount
	})

	total = finiteOrZero(total)
	if total > 0 && total < sum {
		total = sum
	}

	for i := range segments {
		if len(palette) > 0 {
			segments[i].Color = palette[i%len(palette)]
		}
		segments[i].Percentage = percentOf(segments[i].Amount, total)
	}

	return segments
}

// percentOf returns part/total*100, or 0 when total is not positive
func percentOf(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return finiteOrZero(part * 100 / total)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
