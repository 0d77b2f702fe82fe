// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat log.
//
// # Key Types
//
//   - Conversation: append-only, in-memory ordered list of messages
//   - Message: single message with role, content and timestamp
//   - Role: message role enumeration (user, assistant)
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("Hello")
//	conv.AddAssistantMessage("Hi there")
//
// Message IDs are the creation time in Unix milliseconds, rendered as a
// decimal string. A Conversation guarantees its IDs strictly increase even
// when two messages are created within the same millisecond.
package model
