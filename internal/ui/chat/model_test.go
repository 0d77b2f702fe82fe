// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/freqdash/internal/api"
	"github.com/jeranaias/freqdash/internal/model"
	"github.com/jeranaias/freqdash/internal/ui"
	"github.com/jeranaias/freqdash/internal/ui/styles"
)

// backend is a fake dashboard server.
type backend struct {
	messages atomic.Int32
	clears   atomic.Int32
	status   atomic.Int32 // 0 means 200
	lastBody atomic.Value
	reply    string
}

func newBackend(t *testing.T, reply string) (*backend, *api.Client) {
	t.Helper()
	b := &backend{reply: reply}
	mux := http.NewServeMux()
	mux.HandleFunc(api.DefaultMessagePath, func(w http.ResponseWriter, r *http.Request) {
		b.messages.Add(1)
		var req api.MessageRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		b.lastBody.Store(req.Content)
		if s := b.status.Load(); s != 0 {
			w.WriteHeader(int(s))
			return
		}
		json.NewEncoder(w).Encode(api.MessageResponse{Response: b.reply})
	})
	mux.HandleFunc(api.DefaultClearHistoryPath, func(w http.ResponseWriter, r *http.Request) {
		b.clears.Add(1)
		if s := b.status.Load(); s != 0 {
			w.WriteHeader(int(s))
			return
		}
		w.Write([]byte(`{"status":"cleared"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return b, api.NewClient(server.URL)
}

func newTestModel(client Client) Model {
	m := New(styles.NewThemeFor("dark"), client)
	m.SetSize(80, 24)
	return m
}

func typeAndSubmit(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Msg) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	var next tea.Cmd
	m, next = m.Update(msg)
	if next != nil {
		return m, next()
	}
	return m, nil
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSubmit_AppendsUserThenAssistant(t *testing.T) {
	b, client := newBackend(t, "Hi there")
	m := newTestModel(client)

	m, cmd := typeAndSubmit(t, m, "Hello")

	// The user message is visible before the call returns.
	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Empty(t, m.InputValue())
	assert.True(t, m.IsSending())
	assert.Zero(t, b.messages.Load())

	m, out := run(t, m, cmd)
	assert.Nil(t, out)
	assert.False(t, m.IsSending())

	msgs = m.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Hi there", msgs[1].Content)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
	assert.Equal(t, "Hello", b.lastBody.Load())
}

func TestSubmit_RolesAlternate(t *testing.T) {
	_, client := newBackend(t, "ok")
	m := newTestModel(client)

	const n = 4
	for i := 0; i < n; i++ {
		var cmd tea.Cmd
		m, cmd = typeAndSubmit(t, m, "question")
		m, _ = run(t, m, cmd)
	}

	msgs := m.Messages()
	require.Len(t, msgs, 2*n)
	for i, msg := range msgs {
		if i%2 == 0 {
			assert.Equal(t, model.RoleUser, msg.Role, "message %d", i)
		} else {
			assert.Equal(t, model.RoleAssistant, msg.Role, "message %d", i)
		}
		if i > 0 {
			assert.NotEqual(t, msg.ID, msgs[i-1].ID)
		}
	}
}

func TestSubmit_BlankInputIsNoop(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		b, client := newBackend(t, "unused")
		m := newTestModel(client)

		m, cmd := typeAndSubmit(t, m, input)
		assert.Nil(t, cmd, "input %q", input)
		assert.Empty(t, m.Messages())
		assert.False(t, m.IsSending())
		assert.Zero(t, b.messages.Load())
	}
}

func TestSubmit_FailureKeepsUserMessage(t *testing.T) {
	b, client := newBackend(t, "unused")
	b.status.Store(http.StatusInternalServerError)
	m := newTestModel(client)

	m, cmd := typeAndSubmit(t, m, "Hello")
	m, out := run(t, m, cmd)

	perr, ok := out.(ui.PanelErrorMsg)
	require.True(t, ok, "expected PanelErrorMsg, got %T", out)
	assert.Equal(t, PanelName, perr.Panel)
	assert.True(t, api.IsHTTPStatus(perr.Err, http.StatusInternalServerError))

	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.False(t, m.IsSending())
	assert.Contains(t, client.State().Error, "500")
}

func TestSubmit_RefusedWhileSending(t *testing.T) {
	b, client := newBackend(t, "first reply")
	m := newTestModel(client)

	m, first := typeAndSubmit(t, m, "first")
	require.NotNil(t, first)

	m, second := typeAndSubmit(t, m, "second")
	assert.Nil(t, second)
	assert.Len(t, m.Messages(), 1)

	m, _ = run(t, m, first)
	assert.Len(t, m.Messages(), 2)
	assert.Equal(t, int32(1), b.messages.Load())
}

func TestSubmit_SanitizesInput(t *testing.T) {
	b, client := newBackend(t, "ok")
	m := newTestModel(client)

	m, cmd := typeAndSubmit(t, m, "café\x07")
	_, _ = run(t, m, cmd)
	assert.Equal(t, "café", b.lastBody.Load())
}

// =============================================================================
// CLEAR HISTORY TESTS
// =============================================================================

func TestClearHistory(t *testing.T) {
	b, client := newBackend(t, "ok")
	m := newTestModel(client)

	m, cmd := typeAndSubmit(t, m, "hello")
	m, _ = run(t, m, cmd)
	require.Len(t, m.Messages(), 2)

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m, out := run(t, m, cmd)
	assert.Nil(t, out)
	assert.Empty(t, m.Messages())
	assert.Equal(t, int32(1), b.clears.Load())
}

func TestClearHistory_FailureKeepsMessages(t *testing.T) {
	b, client := newBackend(t, "ok")
	m := newTestModel(client)

	m, cmd := typeAndSubmit(t, m, "hello")
	m, _ = run(t, m, cmd)

	b.status.Store(http.StatusServiceUnavailable)
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m, out := run(t, m, cmd)

	_, ok := out.(ui.PanelErrorMsg)
	assert.True(t, ok)
	assert.Len(t, m.Messages(), 2)
}

func TestClearHistory_RefusesSubmitUntilDone(t *testing.T) {
	b, client := newBackend(t, "Hi there")
	m := newTestModel(client)

	m, clearCmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, clearCmd)
	assert.Equal(t, StateClearing, m.State())

	m, sendCmd := typeAndSubmit(t, m, "Hello")
	assert.Nil(t, sendCmd)
	assert.Empty(t, m.Messages())

	m, _ = run(t, m, clearCmd)
	assert.Equal(t, StateIdle, m.State())

	m, sendCmd = typeAndSubmit(t, m, "Hello")
	m, _ = run(t, m, sendCmd)

	msgs := m.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, int32(1), b.clears.Load())
	assert.Equal(t, int32(1), b.messages.Load())
}

func TestClearHistory_FailureReturnsToIdle(t *testing.T) {
	b, client := newBackend(t, "ok")
	b.status.Store(http.StatusInternalServerError)
	m := newTestModel(client)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m, _ = run(t, m, cmd)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, placeholderReady, m.input.Placeholder)
}

// =============================================================================
// VIEW TESTS
// =============================================================================

func TestView(t *testing.T) {
	_, client := newBackend(t, "Hi there")
	m := newTestModel(client)
	assert.Contains(t, m.View(), "Send a message to start chatting.")

	m, cmd := typeAndSubmit(t, m, "Hello")
	assert.Contains(t, m.View(), placeholderWaiting)

	m, _ = run(t, m, cmd)
	view := m.View()
	assert.Contains(t, view, "Hello")
	assert.Contains(t, view, "there")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "Sending", StateSending.String())
	assert.Equal(t, "Clearing", StateClearing.String())
	assert.Equal(t, "Unknown", State(9).String())
}
