// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders assistant markdown for the transcript viewport.
// Rebuilding a glamour renderer is expensive, so one is cached per width.
type MarkdownRenderer struct {
	mu       sync.Mutex
	width    int
	dark     bool
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer wrapping at the given width.
func NewMarkdownRenderer(width int, dark bool) *MarkdownRenderer {
	return &MarkdownRenderer{width: width, dark: dark}
}

// SetWidth updates the wrap width; the underlying renderer is rebuilt lazily.
func (r *MarkdownRenderer) SetWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width != r.width {
		r.width = width
		r.renderer = nil
	}
}

// Render converts markdown to styled terminal output. On renderer failure
// the raw text is returned so the transcript never goes blank.
func (r *MarkdownRenderer) Render(markdown string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.renderer == nil {
		style := glamour.WithStandardStyle("dark")
		if !r.dark {
			style = glamour.WithStandardStyle("light")
		}
		renderer, err := glamour.NewTermRenderer(
			style,
			glamour.WithWordWrap(r.width),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
	}

	out, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
