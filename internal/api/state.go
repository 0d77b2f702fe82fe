// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "sync"

// State is a snapshot of the client's call state.
// Error is empty when no failure has been recorded since the last call began.
type State struct {
	IsLoading bool
	Error     string
}

// HasError returns true if a failure is currently recorded.
func (s State) HasError() bool {
	return s.Error != ""
}

// tracker holds the shared loading/error pair.
//
// Loading is backed by an in-flight counter so overlapping calls keep the
// flag raised until the last one settles. This intentionally departs from a
// single boolean where whichever call settles last writes false even while
// another call is still running. Each call clears Error when it
// starts; a failure records its message when it settles, so among racing
// calls the last failure to settle is what remains.
type tracker struct {
	mu       sync.Mutex
	inFlight int
	err      string

	subsMu sync.Mutex
	subs   []func(State)
}

func (t *tracker) snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{IsLoading: t.inFlight > 0, Error: t.err}
}

func (t *tracker) begin() {
	t.mu.Lock()
	t.inFlight++
	t.err = ""
	s := State{IsLoading: true}
	t.mu.Unlock()
	t.notify(s)
}

func (t *tracker) settle(err error) {
	t.mu.Lock()
	if t.inFlight > 0 {
		t.inFlight--
	}
	if err != nil {
		t.err = ErrorString(err)
	}
	s := State{IsLoading: t.inFlight > 0, Error: t.err}
	t.mu.Unlock()
	t.notify(s)
}

func (t *tracker) subscribe(fn func(State)) func() {
	t.subsMu.Lock()
	defer t.subsMu.Unlock()
	t.subs = append(t.subs, fn)
	idx := len(t.subs) - 1
	return func() {
		t.subsMu.Lock()
		defer t.subsMu.Unlock()
		if idx < len(t.subs) {
			t.subs[idx] = nil
		}
	}
}

// notify runs subscribers outside t.mu so they may call back into the client.
func (t *tracker) notify(s State) {
	t.subsMu.Lock()
	subs := make([]func(State), len(t.subs))
	copy(subs, t.subs)
	t.subsMu.Unlock()

	for _, fn := range subs {
		if fn != nil {
			fn(s)
		}
	}
}
