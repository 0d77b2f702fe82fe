// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/freqdash/internal/model"
	"github.com/jeranaias/freqdash/internal/ui"
	"github.com/jeranaias/freqdash/internal/ui/components"
	"github.com/jeranaias/freqdash/internal/ui/styles"
	"github.com/jeranaias/freqdash/internal/util"
)

// PanelName identifies this panel in PanelErrorMsg.
const PanelName = "chat"

const (
	placeholderReady    = "Type a message..."
	placeholderWaiting  = "Waiting for reply..."
	placeholderClearing = "Clearing history..."
)

// =============================================================================
// STATE
// =============================================================================

// State represents the request state of the panel. Only StateIdle accepts
// input, so a clear can never wipe a message sent after it started.
type State int

const (
	StateIdle State = iota
	StateSending
	StateClearing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSending:
		return "Sending"
	case StateClearing:
		return "Clearing"
	default:
		return "Unknown"
	}
}

// Client is the part of the API client the chat panel uses.
type Client interface {
	SendMessage(ctx context.Context, content string) (string, error)
	ClearHistory(ctx context.Context) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat panel.
type Model struct {
	theme        *styles.Theme
	client       Client
	conversation *model.Conversation
	markdown     *components.Markdown

	input    textinput.Model
	viewport viewport.Model
	keyMap   KeyMap

	state          State
	showTimestamps bool
	width          int
	height         int
}

// New creates a chat panel that talks to client.
func New(theme *styles.Theme, client Client) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholderReady
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	return Model{
		theme:          theme,
		client:         client,
		conversation:   model.NewConversation(),
		markdown:       components.NewMarkdown(theme.IsDark),
		input:          ti,
		viewport:       vp,
		keyMap:         DefaultKeyMap(),
		showTimestamps: true,
		width:          80,
		height:         24,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case replyMsg:
		return m.handleReply(msg)

	case clearedMsg:
		m.setState(StateIdle)
		if msg.Err != nil {
			log.Printf("chat: clear history failed: %v", msg.Err)
			return m, ui.ReportError(PanelName, msg.Err)
		}
		m.conversation.Reset()
		m.updateViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Clear):
		if m.state != StateIdle {
			return m, nil
		}
		m.setState(StateClearing)
		return m, m.clearHistoryCmd()

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	case key.Matches(msg, m.keyMap.Home):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keyMap.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	if m.state != StateIdle {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit appends the user message immediately and starts the call.
// Blank input and submits during a send or clear are ignored.
func (m Model) submit() (Model, tea.Cmd) {
	if m.state != StateIdle {
		return m, nil
	}
	content := util.SanitizeInput(m.input.Value())
	if util.IsBlank(content) {
		return m, nil
	}

	m.conversation.AddUserMessage(content)
	m.input.Reset()
	m.setState(StateSending)
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, m.sendCmd(content)
}

func (m Model) handleReply(msg replyMsg) (Model, tea.Cmd) {
	m.setState(StateIdle)
	if msg.Err != nil {
		log.Printf("chat: send failed: %v", msg.Err)
		return m, ui.ReportError(PanelName, msg.Err)
	}
	m.conversation.AddAssistantMessage(msg.Content)
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m *Model) setState(state State) {
	m.state = state
	switch state {
	case StateSending:
		m.input.Placeholder = placeholderWaiting
		m.input.Blur()
	case StateClearing:
		m.input.Placeholder = placeholderClearing
		m.input.Blur()
	default:
		m.input.Placeholder = placeholderReady
		m.input.Focus()
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) sendCmd(content string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		reply, err := client.SendMessage(context.Background(), content)
		return replyMsg{Content: reply, Err: err}
	}
}

func (m Model) clearHistoryCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return clearedMsg{Err: client.ClearHistory(context.Background())}
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	const inputHeight = 3 // bordered single line
	vpHeight := height - inputHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight

	// Border, padding and the "> " prompt.
	inputWidth := width - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth
	m.updateViewport()
}

// SetShowTimestamps toggles timestamps on messages.
func (m *Model) SetShowTimestamps(show bool) {
	m.showTimestamps = show
	m.updateViewport()
}

// SetTheme swaps the theme, rebuilding the markdown renderer.
func (m *Model) SetTheme(theme *styles.Theme) {
	m.theme = theme
	m.markdown = components.NewMarkdown(theme.IsDark)
	m.updateViewport()
}

// Focus gives the input keyboard focus unless a call is in flight.
func (m *Model) Focus() tea.Cmd {
	if m.state != StateIdle {
		return nil
	}
	return m.input.Focus()
}

// Blur removes keyboard focus from the input.
func (m *Model) Blur() {
	m.input.Blur()
}

// Messages returns a copy of the conversation.
func (m Model) Messages() []model.Message {
	return m.conversation.Messages()
}

// Conversation returns the panel's conversation.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// State returns the send state.
func (m Model) State() State {
	return m.state
}

// IsSending reports whether a message is in flight.
func (m Model) IsSending() bool {
	return m.state == StateSending
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// HasInput reports whether the input holds text the user is editing.
func (m Model) HasInput() bool {
	return m.input.Value() != ""
}

// KeyMap returns the panel's bindings for the help view.
func (m Model) KeyMap() help.KeyMap {
	return m.keyMap
}

func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
}
