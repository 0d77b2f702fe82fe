// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/freqdash/internal/config"
)

// stateChangedMsg signals that the client's loading or error state moved.
// The handler reads the current snapshot rather than trusting a copy.
type stateChangedMsg struct{}

// configReloadedMsg carries a config file change picked up by the watcher.
type configReloadedMsg struct {
	Config *config.Config
	Err    error
}

// signal wakes a listener without blocking. A pending wake already covers
// any change that happens before it is consumed.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// deliverLatest replaces any undelivered reload with the newer one.
func deliverLatest(ch chan configReloadedMsg, msg configReloadedMsg) {
	for {
		select {
		case ch <- msg:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func waitForState(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func waitForReload(ch <-chan configReloadedMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
