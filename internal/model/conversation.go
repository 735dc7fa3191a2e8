// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"github.com/google/uuid"

	"github.com/driftlabs/driftchat/internal/util"
)

// TitleMaxRunes is how much of the first user message becomes the
// auto-derived conversation title.
const TitleMaxRunes = 30

// DefaultTitle is the title of a conversation before any message names it.
const DefaultTitle = "New Chat"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered message sequence with metadata.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"` // Unix milliseconds
	UpdatedAt int64     `json:"updatedAt"` // Unix milliseconds
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation(title string) *Conversation {
	if title == "" {
		title = DefaultTitle
	}
	now := NowMillis()
	return &Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message and bumps UpdatedAt. When the very first appended
// message is a user message, the title is derived from it: the first
// TitleMaxRunes characters, "..."-suffixed if longer.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = NowMillis()
	if len(c.Messages) == 1 && msg.Role == RoleUser {
		c.Title = util.TruncateRunes(msg.Content, TitleMaxRunes)
	}
}

// MessageByID returns a pointer to the message with the given ID, or nil.
func (c *Conversation) MessageByID(id string) *Message {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return &c.Messages[i]
		}
	}
	return nil
}

// IndexOf returns the position of a message ID, or -1.
func (c *Conversation) IndexOf(id string) int {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return i
		}
	}
	return -1
}

// Touch bumps UpdatedAt.
func (c *Conversation) Touch() {
	c.UpdatedAt = NowMillis()
}

// IsEmpty reports whether the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Preview returns a short one-line preview of the first user message.
func (c *Conversation) Preview(maxRunes int) string {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && msg.Content != "" {
			return msg.Preview(maxRunes)
		}
	}
	return ""
}

// =============================================================================
// COPY-ON-WRITE
// =============================================================================

// Clone returns a deep copy. The conversation store rebuilds a clone on every
// mutation so that a reader holding the previous pointer never observes a
// partially mutated message slice.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	return &clone
}
