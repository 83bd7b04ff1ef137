// Package chart renders the portfolio visualization as a PNG bar chart.
package chart

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"finboard/internal/core"
	"finboard/internal/finance"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var categoryColors = map[string]string{
	core.CategoryInvestments: "16a34a", // green-600
	core.CategoryLoans:       "dc2626", // red-600
	core.CategoryCapex:       "2563eb", // blue-600
	core.CategoryVouchers:    "9333ea", // purple-600
}

// RenderPortfolioChart draws one bar per category, labelled with its share.
// Categories follow core.PortfolioCategories order, then any others sorted.
func RenderPortfolioChart(p finance.Portfolio) ([]byte, error) {
	names := orderedCategories(p)
	if len(names) == 0 {
		return nil, fmt.Errorf("portfolio has no categories")
	}

	bars := make([]chart.Value, 0, len(names))
	lo, hi := 0.0, 0.0
	for _, name := range names {
		v := p.Totals[name]
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		color, ok := categoryColors[name]
		if !ok {
			color = "6b7280" // gray-500
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d%%)", title(name), p.Shares[name]),
			Value: v,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(color),
				StrokeColor: drawing.ColorFromHex(color),
				StrokeWidth: 1,
			},
		})
	}
	// An all-zero portfolio still renders, with an empty 0..1 axis.
	if hi == lo {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Portfolio Allocation (total %.2f)", p.Total),
		Width:    800,
		Height:   400,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func orderedCategories(p finance.Portfolio) []string {
	seen := make(map[string]bool, len(p.Totals))
	out := make([]string, 0, len(p.Totals))
	for _, name := range core.PortfolioCategories {
		if _, ok := p.Totals[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	for _, name := range p.Categories() {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
