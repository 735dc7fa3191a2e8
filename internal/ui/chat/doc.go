// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the driftchat TUI.
//
// The view drives the conversation service: submissions start a streaming
// exchange in a goroutine, cumulative fragments arrive back through the
// Bubble Tea message loop, and Escape aborts the in-flight request. One
// exchange runs at a time; the input is gated while streaming.
package chat
