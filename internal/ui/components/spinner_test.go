// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/freqdash/internal/ui/styles"
)

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Loading")

	if s.message != "Loading" {
		t.Errorf("NewSpinner() message = %q, want %q", s.message, "Loading")
	}
	if !s.showTimer {
		t.Error("NewSpinner() showTimer should be true")
	}
	if s.IsActive() {
		t.Error("NewSpinner() should not be active initially")
	}
}

func TestSpinnerStartStop(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base
	s := NewSpinner("Working")
	s.now = func() time.Time { return now }

	if cmd := s.Start(); cmd == nil {
		t.Error("Start() should return a tick command")
	}
	if !s.IsActive() {
		t.Fatal("spinner should be active after Start()")
	}

	now = base.Add(3 * time.Second)
	if cmd := s.Start(); cmd != nil {
		t.Error("Start() on an active spinner should not tick again")
	}
	if got := s.Elapsed(); got != 3*time.Second {
		t.Errorf("Elapsed() = %v, want 3s", got)
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop()")
	}
}

func TestSpinnerView(t *testing.T) {
	theme := styles.NewThemeFor("dark")
	s := NewSpinner("Fetching metrics")

	if got := s.View(theme); got != "" {
		t.Errorf("inactive View() = %q, want empty", got)
	}

	s.Start()
	view := s.View(theme)
	if !strings.Contains(view, "Fetching metrics") {
		t.Errorf("View() = %q, missing message", view)
	}
	if !strings.Contains(view, "0s") {
		t.Errorf("View() = %q, missing timer", view)
	}

	s.SetShowTimer(false)
	if strings.Contains(s.View(theme), "(") {
		t.Error("View() should omit the timer when disabled")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{1400 * time.Millisecond, "1s"},
		{59 * time.Second, "59s"},
		{65 * time.Second, "1m05s"},
		{10*time.Minute + 30*time.Second, "10m30s"},
	}
	for _, tc := range tests {
		if got := formatElapsed(tc.d); got != tc.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
