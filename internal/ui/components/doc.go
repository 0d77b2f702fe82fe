// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable visual pieces of the freqdash TUI.
//
//   - LineChart: multi-series ASCII chart with gaps for missing values
//   - MetricsTable: raw metrics samples
//   - MessageBubble: chat message, assistant replies rendered as markdown
//   - TabBar, ErrorBanner, Spinner: shell chrome
package components
