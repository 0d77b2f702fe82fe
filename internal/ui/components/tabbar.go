// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/freqdash/internal/ui/styles"
)

// TabBar renders the row of tab titles with the active one highlighted.
type TabBar struct {
	Titles []string
	Active int
	// Numbered prefixes each title with its alt+N shortcut.
	Numbered bool
}

// View renders the tab bar.
func (t TabBar) View(theme *styles.Theme) string {
	tabs := make([]string, 0, len(t.Titles))
	for i, title := range t.Titles {
		label := title
		if t.Numbered {
			label = strconv.Itoa(i+1) + " " + title
		}
		if i == t.Active {
			tabs = append(tabs, theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, theme.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
