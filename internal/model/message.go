// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/driftlabs/driftchat/internal/util"
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

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
//
// Identity (ID, Role, Timestamp) is fixed at creation; Content is the only
// field that mutates, during streaming and on user edit.
type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// NewMessage creates a message with a generated ID and the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: NowMillis(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewPendingAssistant creates an empty assistant message. The empty content
// is how the UI observes the message as "pending" until the stream starts.
func NewPendingAssistant() Message {
	return NewMessage(RoleAssistant, "")
}

// IsPending reports whether this is an assistant message that has not yet
// received any content.
func (m Message) IsPending() bool {
	return m.Role == RoleAssistant && m.Content == ""
}

// Preview returns a one-line, rune-safe truncation of the content.
func (m Message) Preview(maxRunes int) string {
	return util.TruncateRunes(util.SingleLine(m.Content), maxRunes)
}

// Time returns the timestamp as a time.Time.
func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// NowMillis returns the current wall clock as Unix milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
