// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat holds the conversation list and drives message exchanges
// against the streaming transport. The Service is the single writer for
// conversation state: the UI reads snapshots and receives progress
// callbacks, while sends, edits, and deletions all funnel through it.
package chat
