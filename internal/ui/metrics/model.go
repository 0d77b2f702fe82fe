// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics provides the training metrics panel of the freqdash TUI:
// a two-series line chart over the sample names with the raw samples
// tabulated underneath.
package metrics

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/freqdash/internal/api"
	cache "github.com/jeranaias/freqdash/internal/metrics"
	"github.com/jeranaias/freqdash/internal/ui"
	"github.com/jeranaias/freqdash/internal/ui/components"
	"github.com/jeranaias/freqdash/internal/ui/styles"
)

// PanelName identifies this panel in PanelErrorMsg.
const PanelName = "metrics"

// DefaultChartHeight is the number of plot rows.
const DefaultChartHeight = 12

// Source is the metrics cache as seen by the panel.
type Source interface {
	Get(ctx context.Context) ([]api.MetricSample, error)
	Stats() cache.Stats
}

// KeyMap defines the metrics panel bindings.
type KeyMap struct {
	Refresh  key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
	}
}

// ShortHelp returns the bindings shown in the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh}
}

// FullHelp returns the bindings shown in the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh},
		{k.Up, k.Down, k.PageUp, k.PageDown},
	}
}

// fetchedMsg carries the result of a cache read.
type fetchedMsg struct {
	Samples []api.MetricSample
	Err     error
	At      time.Time
}

// Model is the metrics panel.
type Model struct {
	theme  *styles.Theme
	source Source
	keyMap KeyMap

	viewport    viewport.Model
	samples     []api.MetricSample
	loaded      bool
	fetching    bool
	updatedAt   time.Time
	chartHeight int

	width  int
	height int
}

// New creates a metrics panel that reads through source.
func New(theme *styles.Theme, source Source) Model {
	m := Model{
		theme:       theme,
		source:      source,
		keyMap:      DefaultKeyMap(),
		viewport:    viewport.New(80, 20),
		chartHeight: DefaultChartHeight,
		width:       80,
		height:      24,
	}
	m.refreshContent()
	return m
}

// Init does nothing; fetching starts on activation.
func (m Model) Init() tea.Cmd {
	return nil
}

// Activate is called whenever the tab becomes active. It reads through the
// cache, which only reaches the network once the TTL has lapsed.
func (m *Model) Activate() tea.Cmd {
	return m.fetch()
}

func (m *Model) fetch() tea.Cmd {
	if m.fetching {
		return nil
	}
	m.fetching = true
	m.refreshContent()

	source := m.source
	return func() tea.Msg {
		samples, err := source.Get(context.Background())
		return fetchedMsg{Samples: samples, Err: err, At: time.Now()}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Refresh):
			return m, m.fetch()
		case key.Matches(msg, m.keyMap.Up):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keyMap.Down):
			m.viewport.LineDown(1)
		case key.Matches(msg, m.keyMap.PageUp):
			m.viewport.HalfViewUp()
		case key.Matches(msg, m.keyMap.PageDown):
			m.viewport.HalfViewDown()
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case fetchedMsg:
		m.fetching = false
		if msg.Err != nil {
			// Keep whatever was shown before.
			log.Printf("metrics: fetch failed: %v", msg.Err)
			m.refreshContent()
			return m, ui.ReportError(PanelName, msg.Err)
		}
		m.samples = msg.Samples
		m.loaded = true
		m.updatedAt = msg.At
		m.refreshContent()
		return m, nil
	}
	return m, nil
}

// View renders the panel.
func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) refreshContent() {
	m.viewport.SetContent(m.render())
}

func (m Model) render() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Training metrics"))
	b.WriteByte('\n')

	switch {
	case !m.loaded && m.fetching:
		b.WriteString(m.theme.ThinkingText.Render("Loading metrics..."))
		return b.String()
	case !m.loaded:
		b.WriteString(m.theme.Muted.Render("No metrics loaded."))
		return b.String()
	}

	b.WriteString(m.chart().Render())
	b.WriteString("\n\n")
	b.WriteString(components.MetricsTable(m.theme, m.samples, 0))
	b.WriteString("\n\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) chart() components.LineChart {
	return components.MetricsChart(m.theme, m.samples, m.width, m.chartHeight)
}

func (m Model) footer() string {
	stats := m.source.Stats()
	parts := []string{fmt.Sprintf("%d samples", len(m.samples))}
	if !m.updatedAt.IsZero() {
		parts = append(parts, "updated "+m.updatedAt.Format("15:04:05"))
	}
	parts = append(parts,
		fmt.Sprintf("cache %d hits / %d misses", stats.Hits, stats.Misses),
		"ttl "+stats.TTL.String(),
	)
	if m.fetching {
		parts = append(parts, "refreshing...")
	}
	return m.theme.Muted.Render(strings.Join(parts, "  ·  "))
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.refreshContent()
}

// SetChartHeight sets the number of plot rows.
func (m *Model) SetChartHeight(rows int) {
	if rows <= 0 {
		rows = DefaultChartHeight
	}
	m.chartHeight = rows
	m.refreshContent()
}

// SetTheme swaps the theme.
func (m *Model) SetTheme(theme *styles.Theme) {
	m.theme = theme
	m.refreshContent()
}

// Samples returns the samples currently displayed.
func (m Model) Samples() []api.MetricSample {
	return m.samples
}

// IsFetching reports whether a cache read is in flight.
func (m Model) IsFetching() bool {
	return m.fetching
}

// KeyMap returns the panel's bindings for the help view.
func (m Model) KeyMap() help.KeyMap {
	return m.keyMap
}
