// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// metrics_cmd.go - Print the training metrics series.
//
// Command: metrics [--limit N]
//
// Examples:
//   freqdash metrics
//   freqdash metrics --limit 10
//   freqdash metrics --json

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/freqdash/internal/api"
	"github.com/jeranaias/freqdash/internal/ui/components"
	"github.com/jeranaias/freqdash/internal/ui/styles"
)

// metricsChartHeight is the chart height in rows for CLI output.
const metricsChartHeight = 10

func runMetrics(ctx context.Context, env *Env, args Args) error {
	samples, err := env.Client.FetchMetrics(ctx)
	if err != nil {
		return NewCommandError("metrics", "fetch metrics", err)
	}

	shown := samples
	if args.Limit > 0 && len(shown) > args.Limit {
		shown = shown[len(shown)-args.Limit:]
	}

	if args.JSON {
		if shown == nil {
			shown = []api.MetricSample{}
		}
		return NewJSONResponse("metrics", MetricsData{
			Count:   len(shown),
			Samples: shown,
		}).PrintTo(env.Out)
	}

	theme := styles.NewThemeFor(env.Config.UI.Theme)
	width := GetTerminalWidth()

	if !args.Quiet {
		fmt.Fprintln(env.Out, TitleStyle.Render("Training metrics"))
		fmt.Fprintln(env.Out)
		fmt.Fprintln(env.Out, components.MetricsChart(theme, shown, width, metricsChartHeight).Render())
		fmt.Fprintln(env.Out)
	}

	if len(shown) == 0 {
		if args.Quiet {
			return nil
		}
		fmt.Fprintln(env.Out, DimStyle.Render("The backend returned no samples."))
		return nil
	}

	fmt.Fprintln(env.Out, components.MetricsTable(theme, shown, 0))
	if !args.Quiet && len(shown) < len(samples) {
		fmt.Fprintln(env.Out, DimStyle.Render(fmt.Sprintf("showing last %d of %d samples", len(shown), len(samples))))
	}
	return nil
}
