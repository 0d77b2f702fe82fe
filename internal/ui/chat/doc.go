// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat panel of the freqdash TUI.
//
// The panel keeps a local conversation, appends the user's message as soon
// as it is submitted and appends the assistant reply when the message
// endpoint answers. Only one message is in flight at a time.
package chat
