// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/freqdash/internal/ui/styles"
	"github.com/jeranaias/freqdash/internal/util"
)

// ErrorBanner renders msg as a persistent alert line. An empty msg renders
// nothing. The banner has no timer; it changes only when msg does.
func ErrorBanner(theme *styles.Theme, msg string, width int) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return ""
	}
	text := styles.StatusIndicators.Error + " " + msg
	if width > 4 {
		// Border and padding take three columns.
		text = util.TruncateWidth(text, width-3)
		return theme.ErrorBanner.Width(width - 1).Render(text)
	}
	return theme.ErrorBanner.Render(text)
}
