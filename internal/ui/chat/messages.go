// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// replyMsg carries the result of a message call.
type replyMsg struct {
	Content string
	Err     error
}

// clearedMsg carries the result of a clear-history call.
type clearedMsg struct {
	Err error
}
