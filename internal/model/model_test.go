// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.ID == "" {
		t.Error("expected generated ID")
	}
	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role, RoleUser)
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %q, want %q", msg.Content, "hello")
	}
	if msg.Timestamp == 0 {
		t.Error("expected non-zero timestamp")
	}
}

func TestNewPendingAssistant(t *testing.T) {
	msg := NewPendingAssistant()

	if msg.Role != RoleAssistant {
		t.Errorf("Role = %q, want %q", msg.Role, RoleAssistant)
	}
	if !msg.IsPending() {
		t.Error("empty assistant message should be pending")
	}

	msg.Content = "partial"
	if msg.IsPending() {
		t.Error("assistant message with content should not be pending")
	}
}

func TestConversation_AppendDerivesTitle(t *testing.T) {
	conv := NewConversation("")
	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", conv.Title, DefaultTitle)
	}

	conv.Append(NewUserMessage("short question"))
	if conv.Title != "short question" {
		t.Errorf("Title = %q, want the first user message", conv.Title)
	}

	// Later messages never change the title.
	conv.Append(NewPendingAssistant())
	conv.Append(NewUserMessage("a different question"))
	if conv.Title != "short question" {
		t.Errorf("Title changed to %q after later appends", conv.Title)
	}
}

func TestConversation_TitleTruncation(t *testing.T) {
	conv := NewConversation("")
	long := strings.Repeat("x", 50)
	conv.Append(NewUserMessage(long))

	if conv.Title != strings.Repeat("x", 30)+"..." {
		t.Errorf("Title = %q, want 30 chars + ellipsis", conv.Title)
	}
}

func TestConversation_TitleNotDerivedFromAssistant(t *testing.T) {
	conv := NewConversation("")
	// An error message inserted directly as assistant role, with no
	// preceding user message, must not become the title.
	conv.Append(NewMessage(RoleAssistant, "Error: Conversation not found"))

	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", conv.Title, DefaultTitle)
	}
}

func TestConversation_AppendBumpsUpdatedAt(t *testing.T) {
	conv := NewConversation("t")
	conv.UpdatedAt = 0

	conv.Append(NewUserMessage("hi"))
	if conv.UpdatedAt == 0 {
		t.Error("Append should bump UpdatedAt")
	}
}

func TestConversation_MessageByID(t *testing.T) {
	conv := NewConversation("t")
	msg := NewUserMessage("hi")
	conv.Append(msg)

	found := conv.MessageByID(msg.ID)
	if found == nil {
		t.Fatal("MessageByID returned nil for existing message")
	}
	found.Content = "edited"
	if conv.Messages[0].Content != "edited" {
		t.Error("MessageByID should return a pointer into the slice")
	}

	if conv.MessageByID("nope") != nil {
		t.Error("MessageByID should return nil for unknown ID")
	}
	if conv.IndexOf(msg.ID) != 0 {
		t.Errorf("IndexOf = %d, want 0", conv.IndexOf(msg.ID))
	}
	if conv.IndexOf("nope") != -1 {
		t.Errorf("IndexOf unknown = %d, want -1", conv.IndexOf("nope"))
	}
}

func TestConversation_Clone(t *testing.T) {
	conv := NewConversation("t")
	conv.Append(NewUserMessage("one"))
	conv.Append(NewMessage(RoleAssistant, "two"))

	clone := conv.Clone()
	clone.Messages[0].Content = "mutated"
	clone.Append(NewUserMessage("three"))

	if conv.Messages[0].Content != "one" {
		t.Error("mutating the clone leaked into the original")
	}
	if len(conv.Messages) != 2 {
		t.Errorf("original length = %d, want 2", len(conv.Messages))
	}
}
