// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "fmt"

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// ConfigReason distinguishes the two configuration failure modes: no
// configuration was ever supplied, versus configuration present but with an
// empty API key. Both are settings problems, never network problems.
type ConfigReason int

const (
	// ConfigMissing means Configure was never called.
	ConfigMissing ConfigReason = iota
	// ConfigEmptyKey means configuration exists but the API key is blank.
	ConfigEmptyKey
)

// ConfigError indicates the client cannot issue requests until the user
// fixes their settings.
type ConfigError struct {
	Reason ConfigReason
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	switch e.Reason {
	case ConfigEmptyKey:
		return "API key is not configured. Please set your API key in the settings menu."
	default:
		return "API configuration not set. Please configure your API settings in the settings menu."
	}
}

// APIError indicates the remote endpoint rejected the request or returned
// unusable data. RawBody carries the undecoded response for diagnostics.
type APIError struct {
	Message    string
	StatusCode int
	RawBody    []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return "API error: " + e.Message
}

// NetworkError indicates a transport-level failure (unreachable host, DNS
// failure, connection reset mid-stream), distinct from a remote rejection.
type NetworkError struct {
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return "Network error. Please check your internet connection and try again."
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}
