// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/freqdash/internal/ui/styles"
	"github.com/jeranaias/freqdash/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the shared request status.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape that carries the status without color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusLoading:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// Shortcut is a key hint shown on the right of the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line of the shell.
type StatusBar struct {
	Status    Status
	Endpoint  string
	Info      string
	Shortcuts []Shortcut
	Width     int

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, Width: 80}
}

// View renders the status bar. Narrow terminals drop the endpoint and
// shortcuts before the status.
func (s *StatusBar) View() string {
	left := s.statusStyle().Render(s.Status.Icon() + " " + s.Status.String())
	if s.Info != "" {
		left += s.theme.Muted.Render("  " + s.Info)
	}

	right := s.renderShortcuts()
	mode := styles.LayoutFor(s.Width)
	if mode != styles.LayoutNarrow && s.Endpoint != "" {
		left += s.theme.Muted.Render("  " + s.Endpoint)
	}
	if mode == styles.LayoutNarrow {
		right = ""
	}

	inner := s.Width - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		line := util.TruncateWidth(left, inner)
		return s.theme.StatusBar.Width(s.Width).Render(line)
	}
	return s.theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) renderShortcuts() string {
	parts := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}

func (s *StatusBar) statusStyle() lipgloss.Style {
	switch s.Status {
	case StatusLoading:
		return s.theme.InfoStyle
	case StatusError:
		return s.theme.ErrorStyle
	default:
		return s.theme.SuccessStyle
	}
}
