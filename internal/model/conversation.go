// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"time"
)

// Conversation is the ordered, append-only chat log of one session.
// Insertion order is display order. It is not safe for concurrent use; the
// owning Bubble Tea model mutates it from Update only.
type Conversation struct {
	messages []Message
	lastID   int64
	now      func() time.Time
}

// NewConversation creates an empty conversation using the wall clock.
func NewConversation() *Conversation {
	return NewConversationWithClock(time.Now)
}

// NewConversationWithClock creates an empty conversation that stamps
// messages with now.
func NewConversationWithClock(now func() time.Time) *Conversation {
	if now == nil {
		now = time.Now
	}
	return &Conversation{now: now}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) Message {
	return c.add(RoleUser, content)
}

// AddAssistantMessage creates and appends an assistant message.
func (c *Conversation) AddAssistantMessage(content string) Message {
	return c.add(RoleAssistant, content)
}

func (c *Conversation) add(role Role, content string) Message {
	t := c.now()
	id := t.UnixMilli()
	// Same-millisecond messages still need distinct, ordered IDs.
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id

	msg := Message{
		ID:        strconv.FormatInt(id, 10),
		Content:   content,
		Role:      role,
		Timestamp: t,
	}
	c.messages = append(c.messages, msg)
	return msg
}

// Reset empties the local log. It is used after the remote history has been
// cleared; IDs keep increasing across a reset.
func (c *Conversation) Reset() {
	c.messages = nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a copy of the messages in display order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.messages) == 0
}

// Last returns the most recent message.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// CountByRole returns how many messages have the given role.
func (c *Conversation) CountByRole(role Role) int {
	n := 0
	for _, m := range c.messages {
		if m.Role == role {
			n++
		}
	}
	return n
}
