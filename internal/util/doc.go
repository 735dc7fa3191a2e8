// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for driftchat: crash-safe
// atomic file writes and Unicode-aware string truncation.
package util
