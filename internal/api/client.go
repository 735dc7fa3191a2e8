// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Configuration constants.
const (
	// MaxErrorBodySize caps how much of an error response body is read.
	MaxErrorBodySize = 1 * 1024 * 1024

	// StoppedText is returned by Chat when the request was cancelled before
	// any content arrived. A user stop is not a failure, but the transcript
	// still needs something to show.
	StoppedText = "(stopped)"
)

// sharedStreamingClient has no timeout: stream lifetime is controlled by the
// request context. TLS 1.2 is the floor.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// ChatMessage is a single role/content pair in the wire format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config supplies the endpoint credentials and the selected model. It is
// provided by the settings layer at call time; the client does not persist it.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// chatRequest is the request body for the chat completions endpoint.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// apiErrorResponse is the JSON error envelope returned on non-2xx statuses.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client issues streaming chat completion requests, at most one in flight.
type Client struct {
	mu     sync.Mutex
	cfg    *Config
	cancel context.CancelFunc // cancels the in-flight request, nil when idle
	gen    uint64             // in-flight request generation

	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient creates an unconfigured client. Chat fails with a ConfigError
// until Configure is called with a non-empty API key.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		httpClient: sharedStreamingClient,
		// Pace request issuance; bursts of two cover the common
		// send-then-immediately-regenerate sequence.
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 2),
		log:     log.With().Str("component", "api").Logger(),
	}
}

// Configure sets (or replaces) the endpoint configuration.
func (c *Client) Configure(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	c.cfg = &cfg
}

// SetModel switches the model used for subsequent requests.
func (c *Client) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg != nil {
		c.cfg.Model = model
	}
}

// Model returns the currently selected model identifier.
func (c *Client) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg == nil {
		return ""
	}
	return c.cfg.Model
}

// IsConfigured reports whether a configuration with a non-empty key is set.
func (c *Client) IsConfigured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg != nil && c.cfg.APIKey != ""
}

// CancelOngoingRequest aborts the in-flight request, if any. Returns whether
// a request was actually cancelled; calling it while idle is a no-op.
func (c *Client) CancelOngoingRequest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return false
	}
	c.cancel()
	c.cancel = nil
	return true
}

// =============================================================================
// CHAT
// =============================================================================

// Chat performs one streaming chat completion exchange.
//
// The request body is history followed by a user message with the given
// content. onProgress, when non-nil, is invoked synchronously with the
// cumulative text after every fragment — the full response so far, not a
// delta. Fragments arrive in wire order.
//
// Issuing a new Chat cancels any previous in-flight request; the cancelled
// call returns its partial text with a nil error, never an error caused by
// the newer request.
func (c *Client) Chat(ctx context.Context, message string, history []ChatMessage, onProgress func(string)) (string, error) {
	c.mu.Lock()
	if c.cfg == nil {
		c.mu.Unlock()
		return "", &ConfigError{Reason: ConfigMissing}
	}
	if c.cfg.APIKey == "" {
		c.mu.Unlock()
		return "", &ConfigError{Reason: ConfigEmptyKey}
	}
	cfg := *c.cfg

	// New request wins: abort whatever was in flight.
	if c.cancel != nil {
		c.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		// Only clear the slot if no newer request has claimed it.
		if c.gen == gen {
			c.cancel = nil
		}
		c.mu.Unlock()
	}()

	var full strings.Builder

	if err := c.limiter.Wait(reqCtx); err != nil {
		// Cancelled before the request went out.
		return c.finishCancelled(&full), nil
	}

	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	body, err := json.Marshal(chatRequest{
		Model:    cfg.Model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return "", &APIError{Message: "failed to encode request: " + err.Error()}
	}

	endpoint := cfg.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &APIError{Message: "failed to create request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// Method and path only; headers carry auth and the body may be sensitive.
	c.log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Msg("api request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if reqCtx.Err() != nil {
			return c.finishCancelled(&full), nil
		}
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("api response")

	if resp.StatusCode != http.StatusOK {
		return "", c.errorFromResponse(resp)
	}

	reader := newEventReader(resp.Body)
	for {
		payload, done, err := reader.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if reqCtx.Err() != nil {
				return c.finishCancelled(&full), nil
			}
			return "", &NetworkError{Err: err}
		}
		if done {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			// Malformed events are skipped, never abort the stream.
			c.log.Warn().Err(err).Msg("skipping malformed stream event")
			continue
		}

		if frag := chunk.content(); frag != "" {
			full.WriteString(frag)
			if onProgress != nil {
				onProgress(full.String())
			}
		}
	}

	if reqCtx.Err() != nil {
		return c.finishCancelled(&full), nil
	}
	if full.Len() == 0 {
		return "", &APIError{Message: "No content received from the API. Please try again.", StatusCode: resp.StatusCode}
	}
	return full.String(), nil
}

// finishCancelled implements the stop contract: partial text when any was
// received, the stopped sentinel otherwise.
func (c *Client) finishCancelled(full *strings.Builder) string {
	c.log.Debug().Int("chars", full.Len()).Msg("request cancelled")
	if full.Len() == 0 {
		return StoppedText
	}
	return full.String()
}

// errorFromResponse converts a non-2xx response into an APIError, surfacing
// the nested human-readable message when the body carries one.
func (c *Client) errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))

	msg := "API request failed"
	var envelope apiErrorResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	}

	return &APIError{
		Message:    msg,
		StatusCode: resp.StatusCode,
		RawBody:    raw,
	}
}

// =============================================================================
// MODEL LISTING
// =============================================================================

// ModelInfo describes one model offered by the endpoint.
type ModelInfo struct {
	ID      string `json:"id"`
	OwnedBy string `json:"owned_by,omitempty"`
}

// ListModels fetches the models available at the configured endpoint, for
// the model selector.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	c.mu.Lock()
	if c.cfg == nil {
		c.mu.Unlock()
		return nil, &ConfigError{Reason: ConfigMissing}
	}
	cfg := *c.cfg
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+"/v1/models", nil)
	if err != nil {
		return nil, &APIError{Message: "failed to create request: " + err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse(resp)
	}

	var out struct {
		Data []ModelInfo `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &APIError{Message: "failed to parse models response: " + err.Error()}
	}
	return out.Data, nil
}
