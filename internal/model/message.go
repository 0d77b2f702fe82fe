// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single entry in the chat log.
// Messages are never mutated after they are appended to a Conversation.
type Message struct {
	ID        string
	Content   string
	Role      Role
	Timestamp time.Time
}

// NewMessage creates a message stamped with t. The ID is t in Unix
// milliseconds.
func NewMessage(role Role, content string, t time.Time) Message {
	return Message{
		ID:        strconv.FormatInt(t.UnixMilli(), 10),
		Content:   content,
		Role:      role,
		Timestamp: t,
	}
}

// IsUser returns true if this is a user message.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsAssistant returns true if this is an assistant message.
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// FormattedTime returns the timestamp as HH:MM.
func (m Message) FormattedTime() string {
	return m.Timestamp.Format("15:04")
}

// =============================================================================
// JSON
// =============================================================================

// wireMessage is the JSON shape: timestamp is Unix milliseconds.
type wireMessage struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Role      Role   `json:"role"`
	Timestamp int64  `json:"timestamp"`
}

// MarshalJSON encodes the message with a millisecond timestamp.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireMessage{
		ID:        m.ID,
		Content:   m.Content,
		Role:      m.Role,
		Timestamp: m.Timestamp.UnixMilli(),
	})
}

// UnmarshalJSON decodes a message with a millisecond timestamp.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Role.Valid() {
		return fmt.Errorf("unknown message role %q", w.Role)
	}
	m.ID = w.ID
	m.Content = w.Content
	m.Role = w.Role
	m.Timestamp = time.UnixMilli(w.Timestamp)
	return nil
}
