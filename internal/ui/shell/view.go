// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/freqdash/internal/ui/components"
)

const brand = "freqdash"

// View implements tea.Model.
func (m Model) View() string {
	parts := []string{m.renderHeader()}
	if banner := components.ErrorBanner(m.theme, m.state.Error, m.width); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, m.renderBody())
	if h := m.renderHelp(); h != "" {
		parts = append(parts, h)
	}
	if !m.compact() {
		parts = append(parts, m.renderStatusBar())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	left := m.theme.HeaderBrand.Render(brand) + "  " +
		components.TabBar{Titles: tabTitles[:], Active: int(m.active), Numbered: true}.View(m.theme)

	right := m.spinner.View(m.theme)

	inner := m.width - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderBody() string {
	switch m.active {
	case TabTraining:
		return m.training.View()
	case TabMetrics:
		return m.metrics.View()
	default:
		return m.chat.View()
	}
}

func (m Model) helpKeyMap() help.KeyMap {
	var panel help.KeyMap
	switch m.active {
	case TabTraining:
		panel = m.training.KeyMap()
	case TabMetrics:
		panel = m.metrics.KeyMap()
	default:
		panel = m.chat.KeyMap()
	}
	return helpKeys{shell: m.keyMap, panel: panel}
}

// renderHelp shows the one-line key summary, or the full table when help
// is toggled on. Compact mode drops the summary line.
func (m Model) renderHelp() string {
	if m.compact() && !m.showHelp {
		return ""
	}
	return m.help.View(m.helpKeyMap())
}

func (m Model) compact() bool {
	return m.cfg.UI.CompactMode
}

func (m Model) renderStatusBar() string {
	bar := components.NewStatusBar(m.theme)
	bar.Width = m.width
	bar.Endpoint = m.client.BaseURL()
	switch {
	case m.state.IsLoading:
		bar.Status = components.StatusLoading
	case m.state.HasError():
		bar.Status = components.StatusError
	default:
		bar.Status = components.StatusReady
	}
	if stats := m.cache.Stats(); stats.HasData {
		bar.Info = "metrics age " + stats.Age.Round(time.Second).String()
	}
	return bar.View()
}

// layout gives the active panels whatever height the chrome leaves.
func (m *Model) layout() {
	used := lipgloss.Height(m.renderHeader())
	if h := m.renderHelp(); h != "" {
		used += lipgloss.Height(h)
	}
	if !m.compact() {
		used++ // status bar
	}
	if banner := components.ErrorBanner(m.theme, m.state.Error, m.width); banner != "" {
		used += lipgloss.Height(banner)
	}

	body := m.height - used
	if body < 3 {
		body = 3
	}
	m.chat.SetSize(m.width, body)
	m.training.SetSize(m.width, body)
	m.metrics.SetSize(m.width, body)
}
