// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/freqdash/internal/util"
)

// =============================================================================
// LINE CHART
// =============================================================================

// Series is one named line on a chart. A nil value is a gap: no point is
// drawn and the line is not joined across it.
type Series struct {
	Label  string
	Glyph  rune
	Style  lipgloss.Style
	Values []*float64
}

// LineChart plots several series over a shared categorical x-axis.
// Every sample gets its own column slot; nothing is resampled or smoothed.
// When there are more samples than columns the most recent ones are shown.
type LineChart struct {
	Labels []string
	Series []Series
	Width  int
	Height int

	AxisStyle lipgloss.Style
	GridStyle lipgloss.Style
	MutedText lipgloss.Style
}

const (
	yGutter       = 8 // "-0.1234 " fits
	minChartWidth = 20
	minPlotHeight = 3
	connectorRune = '·'
)

type cell struct {
	r      rune
	series int
	point  bool
}

// window is the slice of samples that fits in the plot.
type window struct {
	start, end int
	colW       int
}

// Render draws the chart with axes, x labels and a legend.
func (c LineChart) Render() string {
	width := c.Width
	if width < minChartWidth {
		width = minChartWidth
	}
	height := c.Height
	if height < minPlotHeight {
		height = minPlotHeight
	}
	plotW := width - yGutter - 1

	n := c.sampleCount()
	if n == 0 {
		return c.MutedText.Render("No metrics yet")
	}
	lo, hi, ok := c.valueRange()
	if !ok {
		return c.MutedText.Render("No numeric values to plot (" + strconv.Itoa(n) + " samples)")
	}

	win := c.fit(n, plotW)
	grid := c.plot(win, plotW, height, lo, hi)

	var b strings.Builder
	for row := 0; row < height; row++ {
		b.WriteString(c.AxisStyle.Render(yTick(row, height, lo, hi)))
		b.WriteString(c.AxisStyle.Render("│"))
		for x := 0; x < plotW; x++ {
			cl := grid[row][x]
			switch {
			case cl.r == 0:
				b.WriteByte(' ')
			case cl.series >= 0:
				b.WriteString(c.Series[cl.series].Style.Render(string(cl.r)))
			default:
				b.WriteString(c.GridStyle.Render(string(cl.r)))
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString(strings.Repeat(" ", yGutter))
	b.WriteString(c.AxisStyle.Render("└" + strings.Repeat("─", plotW)))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", yGutter+1))
	b.WriteString(c.AxisStyle.Render(c.xLabels(win, plotW)))
	b.WriteByte('\n')

	if win.start > 0 {
		b.WriteString(c.MutedText.Render("showing last " + strconv.Itoa(win.end-win.start) + " of " + strconv.Itoa(n) + " samples"))
		b.WriteByte('\n')
	}
	b.WriteString(c.legend())
	return b.String()
}

func (c LineChart) sampleCount() int {
	n := len(c.Labels)
	for _, s := range c.Series {
		if len(s.Values) > n {
			n = len(s.Values)
		}
	}
	return n
}

// valueRange is shared by all series so they read against one y-axis.
func (c LineChart) valueRange() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, v := range s.Values {
			if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
				continue
			}
			lo = math.Min(lo, *v)
			hi = math.Max(hi, *v)
			ok = true
		}
	}
	return lo, hi, ok
}

func (c LineChart) fit(n, plotW int) window {
	colW := plotW / n
	if colW >= 1 {
		return window{start: 0, end: n, colW: colW}
	}
	return window{start: n - plotW, end: n, colW: 1}
}

// plot rasterizes the visible window. Points overwrite connectors; a later
// series overwrites an earlier one only where both have a point.
func (c LineChart) plot(win window, plotW, height int, lo, hi float64) [][]cell {
	grid := make([][]cell, height)
	for r := range grid {
		grid[r] = make([]cell, plotW)
		for x := range grid[r] {
			grid[r][x].series = -1
		}
	}

	rowOf := func(v float64) int {
		if hi == lo {
			return height / 2
		}
		ratio := (v - lo) / (hi - lo)
		row := height - 1 - int(math.Round(ratio*float64(height-1)))
		if row < 0 {
			row = 0
		}
		if row >= height {
			row = height - 1
		}
		return row
	}
	colOf := func(i int) int {
		return (i-win.start)*win.colW + win.colW/2
	}

	for si, s := range c.Series {
		prevX, prevRow := -1, -1
		for i := win.start; i < win.end; i++ {
			var v *float64
			if i < len(s.Values) {
				v = s.Values[i]
			}
			if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
				prevX = -1
				continue
			}
			x, row := colOf(i), rowOf(*v)
			if prevX >= 0 {
				connect(grid, si, prevX, prevRow, x, row)
			}
			grid[row][x] = cell{r: s.Glyph, series: si, point: true}
			prevX, prevRow = x, row
		}
	}
	return grid
}

// connect draws connector dots strictly between two points.
func connect(grid [][]cell, series, x0, y0, x1, y1 int) {
	steps := x1 - x0
	if d := abs(y1 - y0); d > steps {
		steps = d
	}
	for k := 1; k < steps; k++ {
		t := float64(k) / float64(steps)
		x := x0 + int(math.Round(t*float64(x1-x0)))
		y := y0 + int(math.Round(t*float64(y1-y0)))
		if grid[y][x].r == 0 {
			grid[y][x] = cell{r: connectorRune, series: series}
		}
	}
}

func (c LineChart) xLabels(win window, plotW int) string {
	// Skip labels so each one has at least 4 columns to itself.
	every := 1
	if win.colW < 4 {
		every = (4 + win.colW - 1) / win.colW
	}
	slot := win.colW * every

	var b strings.Builder
	for i := win.start; i < win.end; i += every {
		label := ""
		if i < len(c.Labels) {
			label = c.Labels[i]
		}
		b.WriteString(util.PadRight(label, slot-1))
		b.WriteByte(' ')
	}
	out := util.TruncateWidth(b.String(), plotW)
	if util.StringWidth(out) < plotW {
		out = util.PadRight(out, plotW)
	}
	return out
}

func (c LineChart) legend() string {
	parts := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		parts = append(parts, s.Style.Render(string(s.Glyph))+" "+s.Label)
	}
	return strings.Join(parts, "   ")
}

// yTick labels the top, middle and bottom rows.
func yTick(row, height int, lo, hi float64) string {
	var v float64
	switch row {
	case 0:
		v = hi
	case height - 1:
		v = lo
	case (height - 1) / 2:
		v = lo + (hi-lo)/2
	default:
		return strings.Repeat(" ", yGutter)
	}
	return util.PadLeft(formatTick(v), yGutter-1) + " "
}

// formatTick renders v in at most yGutter-1 cells.
func formatTick(v float64) string {
	switch a := math.Abs(v); {
	case a >= 1000:
		for prec := 3; prec > 1; prec-- {
			if s := strconv.FormatFloat(v, 'g', prec, 64); len(s) < yGutter {
				return s
			}
		}
		return util.TruncateWidth(strconv.FormatFloat(v, 'g', 1, 64), yGutter-1)
	case a >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 3, 64)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
