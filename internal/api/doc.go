// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the transport client for OpenAI-compatible chat
// completion endpoints.
//
// A Client performs one streaming exchange at a time: issuing a new request
// cancels the previous one (new request wins). The server-sent event stream
// is decoded line by line into cumulative assistant text, and a progress
// callback receives the full text accumulated so far after every fragment.
//
// A user-initiated stop is not a failure: a cancelled Chat call returns the
// partial text received so far with a nil error.
package api
