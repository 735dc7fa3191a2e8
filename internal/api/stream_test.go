// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"io"
	"strings"
	"testing"
)

func collectPayloads(t *testing.T, input string) (payloads []string, sawDone bool) {
	t.Helper()
	reader := newEventReader(strings.NewReader(input))
	for {
		payload, done, err := reader.next()
		if err == io.EOF {
			return payloads, sawDone
		}
		if err != nil {
			t.Fatalf("next failed: %v", err)
		}
		if done {
			return payloads, true
		}
		payloads = append(payloads, string(payload))
	}
}

func TestEventReader_DataLines(t *testing.T) {
	input := "data: {\"a\":1}\n\ndata: {\"b\":2}\n\ndata: [DONE]\n\n"
	payloads, sawDone := collectPayloads(t, input)
	if !sawDone {
		t.Error("expected [DONE] sentinel")
	}
	if len(payloads) != 2 || payloads[0] != `{"a":1}` || payloads[1] != `{"b":2}` {
		t.Errorf("payloads = %v", payloads)
	}
}

func TestEventReader_IgnoresNonDataFields(t *testing.T) {
	input := ": comment\nevent: message\nid: 7\nretry: 100\ndata: {\"x\":1}\n\ndata: [DONE]\n"
	payloads, sawDone := collectPayloads(t, input)
	if !sawDone {
		t.Error("expected [DONE] sentinel")
	}
	if len(payloads) != 1 || payloads[0] != `{"x":1}` {
		t.Errorf("payloads = %v", payloads)
	}
}

func TestEventReader_CRLFAndNoSpaceAfterColon(t *testing.T) {
	input := "data:{\"x\":1}\r\n\r\ndata: [DONE]\r\n"
	payloads, sawDone := collectPayloads(t, input)
	if !sawDone {
		t.Error("expected [DONE] sentinel")
	}
	if len(payloads) != 1 || payloads[0] != `{"x":1}` {
		t.Errorf("payloads = %v", payloads)
	}
}

func TestEventReader_EOFWithoutDone(t *testing.T) {
	payloads, sawDone := collectPayloads(t, "data: {\"x\":1}\n\n")
	if sawDone {
		t.Error("no [DONE] was sent")
	}
	if len(payloads) != 1 {
		t.Errorf("payloads = %v", payloads)
	}
}

func TestEventReader_FinalLineWithoutNewline(t *testing.T) {
	payloads, sawDone := collectPayloads(t, "data: {\"x\":1}\n\ndata: {\"y\":2}")
	if sawDone {
		t.Error("no [DONE] was sent")
	}
	if len(payloads) != 2 || payloads[1] != `{"y":2}` {
		t.Errorf("payloads = %v", payloads)
	}
}

func TestStreamChunk_Content(t *testing.T) {
	var empty streamChunk
	if empty.content() != "" {
		t.Error("chunk with no choices should yield empty content")
	}
}
