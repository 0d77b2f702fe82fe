// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the freqdash TUI.

All colors are Lip Gloss AdaptiveColor values, so they follow the terminal's
light/dark background. The theme mode from config can pin either side.

# Colors (colors.go)

  - Purple - active tab, assistant messages
  - Cyan - brand, prompts, key hints
  - Emerald / Rose / Amber - success, error, warning
  - ChartAccuracy / ChartLoss - the two metrics series

# Theme (theme.go)

	theme := styles.NewThemeFor(cfg.UI.Theme)
	banner := theme.ErrorBanner.Render(msg)

# Spinners (animations.go)

SpinnerConfig values convert to bubbles spinners with Bubbles().
*/
package styles
