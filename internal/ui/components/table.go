// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/jeranaias/freqdash/internal/api"
	"github.com/jeranaias/freqdash/internal/ui/styles"
	"github.com/jeranaias/freqdash/internal/util"
)

// GapText marks a missing value in tables.
const GapText = "-"

// MetricsTable renders samples as a fixed-width table in server order.
// maxRows <= 0 shows every row; otherwise the most recent rows are kept.
func MetricsTable(theme *styles.Theme, samples []api.MetricSample, maxRows int) string {
	const (
		nameW  = 16
		valueW = 10
	)

	header := util.PadRight("name", nameW) + " " +
		util.PadLeft("accuracy", valueW) + " " +
		util.PadLeft("loss", valueW)

	rows := samples
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[len(rows)-maxRows:]
	}

	var b strings.Builder
	b.WriteString(theme.TableHeader.Render(header))
	for _, s := range rows {
		b.WriteByte('\n')
		b.WriteString(theme.TableCell.Render(util.PadRight(s.Name, nameW)))
		b.WriteByte(' ')
		b.WriteString(valueCell(theme, s.Accuracy, valueW))
		b.WriteByte(' ')
		b.WriteString(valueCell(theme, s.Loss, valueW))
	}
	return b.String()
}

func valueCell(theme *styles.Theme, v *float64, width int) string {
	if v == nil {
		return theme.TableGap.Render(util.PadLeft(GapText, width))
	}
	return theme.TableCell.Render(util.PadLeft(FormatValue(*v), width))
}

// FormatValue formats a metric for display with four decimals.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// MetricsChart builds the accuracy and loss chart for samples.
func MetricsChart(theme *styles.Theme, samples []api.MetricSample, width, height int) LineChart {
	labels := make([]string, len(samples))
	accuracy := make([]*float64, len(samples))
	loss := make([]*float64, len(samples))
	for i, s := range samples {
		labels[i] = s.Name
		accuracy[i] = s.Accuracy
		loss[i] = s.Loss
	}
	return LineChart{
		Labels: labels,
		Series: []Series{
			{Label: "accuracy", Glyph: '●', Style: theme.ChartAccuracy, Values: accuracy},
			{Label: "loss", Glyph: '◆', Style: theme.ChartLoss, Values: loss},
		},
		Width:     width,
		Height:    height,
		AxisStyle: theme.ChartAxis,
		GridStyle: theme.ChartGrid,
		MutedText: theme.Muted,
	}
}
