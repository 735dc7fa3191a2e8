// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// ChatError reports a conversation-level failure, such as a lookup against
// an ID that no longer exists.
type ChatError struct {
	Op  string // operation that failed
	Msg string
}

func (e *ChatError) Error() string {
	if e.Op != "" {
		return e.Op + ": " + e.Msg
	}
	return e.Msg
}

func errNotFound(op string) error {
	return &ChatError{Op: op, Msg: "Conversation not found"}
}

func errMessageNotFound(op string) error {
	return &ChatError{Op: op, Msg: "Message not found"}
}
