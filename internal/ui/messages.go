// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui holds the Bubble Tea messages shared between the freqdash
// panels and the shell that hosts them.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/freqdash/internal/api"
)

// PanelErrorMsg reports a failed action from a panel. The shell shows the
// client's recorded error in its banner; this message lets it log the
// failure with the panel that caused it.
type PanelErrorMsg struct {
	Panel string
	Err   error
}

// Error returns the display string for the failure.
func (m PanelErrorMsg) Error() string {
	return api.ErrorString(m.Err)
}

// ReportError returns a command that emits a PanelErrorMsg.
func ReportError(panel string, err error) tea.Cmd {
	return func() tea.Msg {
		return PanelErrorMsg{Panel: panel, Err: err}
	}
}
