// Package render draws budget segments as a stacked bar chart.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/eshaffer321/wealth-go/pkg/wealth"
)

// ErrNoSegments is returned when there is nothing to draw
var ErrNoSegments = errors.New("no segments to render")

const (
	defaultWidth  = 800
	defaultHeight = 500
	barWidth      = 120
)

// Options controls the rendered image
type Options struct {
	Title  string
	Width  int
	Height int
}

// Bar is one stacked column
type Bar struct {
	Name     string
	Segments []wealth.Segment
}

// StatsBars returns the expense and income columns of stats, skipping
// empty ones
func StatsBars(stats *wealth.BudgetStats) []Bar {
	if stats == nil {
		return nil
	}

	var bars []Bar
	if len(stats.ExpenseBudgetSegments) > 0 {
		bars = append(bars, Bar{Name: "Expenses", Segments: stats.ExpenseBudgetSegments})
	}
	if len(stats.IncomeBudgetSegments) > 0 {
		bars = append(bars, Bar{Name: "Income", Segments: stats.IncomeBudgetSegments})
	}
	return bars
}

// StackedBarPNG renders bars as a PNG image
func StackedBarPNG(bars []Bar, opts Options) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	stacked := make([]chart.StackedBar, 0, len(bars))
	for _, bar := range bars {
		values := barValues(bar.Segments)
		if len(values) == 0 {
			continue
		}
		stacked = append(stacked, chart.StackedBar{
			Name:   bar.Name,
			Width:  barWidth,
			Values: values,
		})
	}
	if len(stacked) == 0 {
		return nil, ErrNoSegments
	}

	graph := chart.StackedBarChart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		BarSpacing: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		Bars: stacked,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, errors.Wrap(err, "failed to render segment chart")
	}

	return buffer.Bytes(), nil
}

func barValues(segments []wealth.Segment) []chart.Value {
	values := make([]chart.Value, 0, len(segments))
	for _, seg := range segments {
		if seg.Amount <= 0 {
			continue
		}

		style := chart.Style{
			StrokeColor: chart.ColorWhite,
			StrokeWidth: 1,
			FontColor:   chart.ColorBlack,
		}
		if seg.Color != "" {
			style.FillColor = drawing.ColorFromHex(strings.TrimPrefix(seg.Color, "#"))
		}

		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", seg.Name, wealth.FormatPercent(seg.Percentage)),
			Value: seg.Amount,
			Style: style,
		})
	}
	return values
}
