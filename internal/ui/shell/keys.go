// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the bindings handled by the shell itself.
type KeyMap struct {
	NextTab    key.Binding
	PrevTab    key.Binding
	GoChat     key.Binding
	GoTraining key.Binding
	GoMetrics  key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default shell bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "previous tab"),
		),
		GoChat: key.NewBinding(
			key.WithKeys("alt+1"),
			key.WithHelp("M-1", "chat"),
		),
		GoTraining: key.NewBinding(
			key.WithKeys("alt+2"),
			key.WithHelp("M-2", "ml"),
		),
		GoMetrics: key.NewBinding(
			key.WithKeys("alt+3"),
			key.WithHelp("M-3", "metrics"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// helpKeys merges the shell bindings with those of the active panel.
type helpKeys struct {
	shell KeyMap
	panel help.KeyMap
}

func (h helpKeys) ShortHelp() []key.Binding {
	out := append([]key.Binding{}, h.panel.ShortHelp()...)
	return append(out, h.shell.NextTab, h.shell.Help, h.shell.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	out := append([][]key.Binding{}, h.panel.FullHelp()...)
	return append(out,
		[]key.Binding{h.shell.NextTab, h.shell.PrevTab},
		[]key.Binding{h.shell.GoChat, h.shell.GoTraining, h.shell.GoMetrics},
		[]key.Binding{h.shell.Help, h.shell.Quit},
	)
}
