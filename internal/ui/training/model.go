// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package training provides the ML training panel of the freqdash TUI.
package training

import (
	"context"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/freqdash/internal/ui"
	"github.com/jeranaias/freqdash/internal/ui/styles"
	"github.com/jeranaias/freqdash/internal/util"
)

// PanelName identifies this panel in PanelErrorMsg.
const PanelName = "training"

// Client is the part of the API client the training panel uses.
type Client interface {
	StartTraining(ctx context.Context, description string) (string, error)
}

// KeyMap defines the training panel bindings.
type KeyMap struct {
	Submit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "start training"),
		),
	}
}

// ShortHelp returns the bindings shown in the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit}
}

// FullHelp returns the bindings shown in the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit}}
}

// startedMsg carries the result of a start-training call.
type startedMsg struct {
	Status string
	Err    error
}

// Model is the training panel.
type Model struct {
	theme  *styles.Theme
	client Client
	keyMap KeyMap

	description textarea.Model
	submitting  bool
	isTraining  bool
	status      string

	width  int
	height int
}

// New creates a training panel that talks to client.
func New(theme *styles.Theme, client Client) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe the training run: dataset, model, hyperparameters..."
	ta.CharLimit = 8192
	ta.ShowLineNumbers = false
	ta.SetWidth(76)
	ta.SetHeight(6)

	return Model{
		theme:       theme,
		client:      client,
		keyMap:      DefaultKeyMap(),
		description: ta,
		width:       80,
		height:      24,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Submit) {
			return m.submit()
		}
		if m.submitting {
			return m, nil
		}

	case startedMsg:
		m.submitting = false
		if msg.Err != nil {
			// The description stays so the user can retry.
			log.Printf("training: start failed: %v", msg.Err)
			return m, ui.ReportError(PanelName, msg.Err)
		}
		m.description.Reset()
		m.isTraining = true
		m.status = msg.Status
		return m, nil
	}

	var cmd tea.Cmd
	m.description, cmd = m.description.Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	description := util.SanitizeInput(m.description.Value())
	if util.IsBlank(description) {
		return m, nil
	}
	m.submitting = true

	client := m.client
	return m, func() tea.Msg {
		status, err := client.StartTraining(context.Background(), strings.TrimSpace(description))
		return startedMsg{Status: status, Err: err}
	}
}

// View renders the panel.
func (m Model) View() string {
	title := m.theme.PanelTitle.Render("Start a training run")

	box := m.theme.InputContainer
	if m.description.Focused() {
		box = m.theme.InputFocused
	}
	editor := box.Render(m.description.View())

	return lipgloss.JoinVertical(lipgloss.Left, title, editor, "", m.renderStatus())
}

func (m Model) renderStatus() string {
	switch {
	case m.submitting:
		return m.theme.ThinkingText.Render("Submitting...")
	case m.isTraining:
		line := m.theme.SuccessStyle.Render(styles.StatusIndicators.Success + " Training started")
		if m.status != "" {
			line += m.theme.Muted.Render("  status: ") + m.status
		}
		return line
	default:
		return m.theme.Muted.Render("Press ctrl+s to submit.")
	}
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	w := width - 4
	if w < 20 {
		w = 20
	}
	// Title, borders and the status block.
	h := height - 7
	if h < 3 {
		h = 3
	}
	if h > 12 {
		h = 12
	}
	m.description.SetWidth(w)
	m.description.SetHeight(h)
}

// SetTheme swaps the theme.
func (m *Model) SetTheme(theme *styles.Theme) {
	m.theme = theme
}

// Focus gives the description field keyboard focus.
func (m *Model) Focus() tea.Cmd {
	return m.description.Focus()
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.description.Blur()
}

// IsTraining reports whether a training run has been started. It is never
// reset; completion is not tracked.
func (m Model) IsTraining() bool {
	return m.isTraining
}

// IsSubmitting reports whether a start request is in flight.
func (m Model) IsSubmitting() bool {
	return m.submitting
}

// Status returns the status reported by the last successful start.
func (m Model) Status() string {
	return m.status
}

// Description returns the current field contents.
func (m Model) Description() string {
	return m.description.Value()
}

// HasInput reports whether the description field holds text.
func (m Model) HasInput() bool {
	return m.description.Value() != ""
}

// KeyMap returns the panel's bindings for the help view.
func (m Model) KeyMap() help.KeyMap {
	return m.keyMap
}
