// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bufio"
	"bytes"
	"io"
)

// dataPrefix marks stream event lines; anything else (comments, blank
// keep-alives, id: fields) is ignored.
var dataPrefix = []byte("data:")

// doneSentinel is the terminal event payload. It ends the read loop early
// and is not an error.
var doneSentinel = []byte("[DONE]")

// streamChunk is one decoded event payload from the completion stream.
type streamChunk struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
			Role    string `json:"role,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// content returns the text fragment from the first choice's delta.
func (c *streamChunk) content() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].Delta.Content
	}
	return ""
}

// eventReader scans an SSE body for data payloads.
type eventReader struct {
	r *bufio.Reader
}

func newEventReader(r io.Reader) *eventReader {
	return &eventReader{r: bufio.NewReader(r)}
}

// next returns the payload of the next data line, done=true at the [DONE]
// sentinel, and io.EOF when the body ends without one.
func (er *eventReader) next() (payload []byte, done bool, err error) {
	for {
		line, err := er.r.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(bytes.TrimSpace(line)) > 0 {
				// A final data line without trailing newline still counts.
				if data, ok := dataPayload(line); ok {
					if bytes.Equal(data, doneSentinel) {
						return nil, true, nil
					}
					return data, false, nil
				}
			}
			return nil, false, err
		}

		data, ok := dataPayload(line)
		if !ok {
			continue
		}
		if bytes.Equal(data, doneSentinel) {
			return nil, true, nil
		}
		return data, false, nil
	}
}

// dataPayload strips the data: prefix and surrounding whitespace.
func dataPayload(line []byte) ([]byte, bool) {
	line = bytes.TrimRight(line, "\r\n")
	if !bytes.HasPrefix(line, dataPrefix) {
		return nil, false
	}
	return bytes.TrimSpace(line[len(dataPrefix):]), true
}
