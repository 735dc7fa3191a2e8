// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/driftlabs/driftchat/internal/model"
)

// errConversationGone covers the window between picking a conversation and
// its deletion by another action.
var errConversationGone = errors.New("conversation no longer exists")

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// streamChunkMsg reports a cumulative fragment for an in-flight exchange.
// The service already holds the updated transcript; the view re-reads it.
type streamChunkMsg struct {
	ConversationID string
	Content        string
}

// streamDoneMsg reports a finished exchange. Message carries the finalized
// assistant message, apology text included.
type streamDoneMsg struct {
	ConversationID string
	Message        *model.Message
}

// regenFailedMsg reports an edit-and-regenerate attempt that was rejected
// before any request was issued.
type regenFailedMsg struct {
	Err error
}

// modelsLoadedMsg carries the model IDs fetched from the endpoint, replacing
// the configured catalog.
type modelsLoadedMsg struct {
	IDs []string
}
