// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
)

func TestHighlightCode_UnknownLanguageFallsBack(t *testing.T) {
	code := "completely unparseable ~~ content"
	out := highlightCode(code, "no-such-language")
	if !strings.Contains(stripANSI(out), "completely unparseable") {
		t.Errorf("output lost the source text: %q", out)
	}
}

func TestCodeBlock_RenderIncludesCode(t *testing.T) {
	block := NewCodeBlock("go", "package main\n\nfunc main() {}\n")
	out := stripANSI(block.Render())
	if !strings.Contains(out, "package main") {
		t.Errorf("rendered block missing code: %q", out)
	}
	if !strings.Contains(out, "go") {
		t.Error("rendered block missing language badge")
	}
}

func TestExtractCodeBlocks(t *testing.T) {
	markdown := "Intro text.\n\n```go\npackage main\n\nfunc main() {}\n```\n\nMore prose.\n\n```\nplain block\n```\n"

	blocks := ExtractCodeBlocks(markdown)
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[0].Language != "go" {
		t.Errorf("Language = %q, want go", blocks[0].Language)
	}
	if !strings.Contains(blocks[0].Code, "package main") {
		t.Errorf("Code = %q", blocks[0].Code)
	}
	if blocks[1].Language != "" || blocks[1].Code != "plain block" {
		t.Errorf("second block = %+v", blocks[1])
	}
}

func TestExtractCodeBlocks_UnterminatedFenceDropped(t *testing.T) {
	blocks := ExtractCodeBlocks("```go\nfunc main() {}")
	if len(blocks) != 0 {
		t.Errorf("blocks = %d, want 0 for an unterminated fence", len(blocks))
	}
}

func TestExtractCodeBlocks_NoFences(t *testing.T) {
	if blocks := ExtractCodeBlocks("just prose"); len(blocks) != 0 {
		t.Errorf("blocks = %d, want 0", len(blocks))
	}
}

// stripANSI removes escape sequences so assertions see plain text.
func stripANSI(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
