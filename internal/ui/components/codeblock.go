// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock renders a fenced code block with syntax highlighting, for code
// the user copies out of the transcript.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
	}
}

// Render returns the highlighted block with a language badge.
func (c CodeBlock) Render() string {
	code := strings.TrimSpace(c.Code)
	highlighted := highlightCode(code, c.Language)

	var header string
	if c.Language != "" {
		header = lipgloss.NewStyle().
			Faint(true).
			Bold(true).
			Padding(0, 1).
			Render(c.Language) + "\n"
	}

	maxWidth := c.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	block := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1).
		MaxWidth(maxWidth).
		Render(highlighted)

	return header + block
}

// ExtractCodeBlocks pulls the fenced code blocks out of a markdown message.
// The fence info string's first word becomes the language; an unterminated
// fence is dropped.
func ExtractCodeBlocks(markdown string) []CodeBlock {
	var blocks []CodeBlock
	var body []string
	var current *CodeBlock

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if current == nil {
				lang := ""
				if fields := strings.Fields(strings.TrimPrefix(trimmed, "```")); len(fields) > 0 {
					lang = fields[0]
				}
				block := NewCodeBlock(lang, "")
				current = &block
				body = body[:0]
				continue
			}
			current.Code = strings.Join(body, "\n")
			blocks = append(blocks, *current)
			current = nil
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	return blocks
}

// highlightCode applies chroma highlighting; on any failure the original
// code is returned unstyled.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		return code
	}

	style := chromaStyles.Get("monokai")
	formatter := formatters.Get("terminal256")

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var sb strings.Builder
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(sb.String(), "\n")
}
