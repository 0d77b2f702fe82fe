// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/freqdash/internal/ui/components"
)

// View renders the message list above the input.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.renderInput())
}

func (m Model) renderMessages() string {
	if m.conversation.IsEmpty() {
		return m.theme.Muted.Render("Send a message to start chatting.")
	}
	return components.RenderConversation(
		m.conversation.Messages(),
		m.viewport.Width,
		m.showTimestamps,
		m.theme,
		m.markdown,
	)
}

func (m Model) renderInput() string {
	style := m.theme.InputContainer
	if m.input.Focused() {
		style = m.theme.InputFocused
	}
	width := m.width - 2
	if width < 12 {
		width = 12
	}
	return style.Width(width).Render(m.input.View())
}
