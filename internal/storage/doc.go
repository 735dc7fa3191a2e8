// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key-value persistence adapter backing the
// conversation store and settings.
//
// The Store interface is a minimal get/set/remove over JSON-encoded values.
// Three backends exist: SQLite (the default, a single kv table), plain JSON
// files with atomic writes, and an in-memory map for tests and ephemeral
// sessions.
package storage
