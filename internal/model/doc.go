// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// A Message is immutable except for its Content, which mutates while an
// assistant response streams in and when the user edits a sent message.
// A Conversation owns an ordered message sequence; order is append order and
// is never re-sorted. Timestamps are Unix milliseconds so the persisted form
// round-trips byte-for-byte.
package model
