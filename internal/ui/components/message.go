// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/freqdash/internal/model"
	"github.com/jeranaias/freqdash/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one chat message.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
	markdown      *Markdown
}

// NewMessageBubble creates a bubble for msg. markdown may be nil, in which
// case assistant content is shown as plain wrapped text.
func NewMessageBubble(msg model.Message, theme *styles.Theme, markdown *Markdown) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
		markdown:      markdown,
	}
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.IsUser() {
		return b.renderUser()
	}
	return b.renderAssistant()
}

func (b *MessageBubble) contentWidth() int {
	w := b.Width - 10 // margins, border and padding
	if w < 20 {
		w = 20
	}
	return w
}

func (b *MessageBubble) renderUser() string {
	content := b.Message.Content
	if strings.TrimSpace(content) == "" {
		content = "..."
	}
	wrapped := lipgloss.NewStyle().Width(b.contentWidth()).Render(content)
	bubble := b.theme.UserBubble.Render(strings.TrimRight(wrapped, " \n"))

	header := b.header("you")
	block := lipgloss.JoinVertical(lipgloss.Right, header, bubble)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, block)
}

func (b *MessageBubble) renderAssistant() string {
	var body string
	if b.markdown != nil {
		body = b.markdown.Render(b.Message.Content, b.contentWidth())
	} else {
		body = lipgloss.NewStyle().Width(b.contentWidth()).Render(b.Message.Content)
	}
	bubble := b.theme.AssistantBubble.Render(body)

	header := b.header("assistant")
	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

func (b *MessageBubble) header(label string) string {
	out := b.theme.RoleLabel.Render(label)
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		out += " " + b.theme.Timestamp.Render(b.Message.FormattedTime())
	}
	return out
}

// RenderConversation renders all messages separated by blank lines.
func RenderConversation(msgs []model.Message, width int, showTimestamps bool, theme *styles.Theme, markdown *Markdown) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		bubble := NewMessageBubble(msg, theme, markdown)
		bubble.Width = width
		bubble.ShowTimestamp = showTimestamps
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}
