// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// COLOR PALETTES
// =============================================================================

// palette holds the adaptive color set for one theme variant.
type palette struct {
	Accent    lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	Surface   lipgloss.Color
	Border    lipgloss.Color
	Error     lipgloss.Color
}

var darkPalette = palette{
	Accent:    lipgloss.Color("39"),  // bright blue
	Text:      lipgloss.Color("252"),
	TextMuted: lipgloss.Color("243"),
	Surface:   lipgloss.Color("236"),
	Border:    lipgloss.Color("240"),
	Error:     lipgloss.Color("203"),
}

var lightPalette = palette{
	Accent:    lipgloss.Color("26"),
	Text:      lipgloss.Color("235"),
	TextMuted: lipgloss.Color("245"),
	Surface:   lipgloss.Color("254"),
	Border:    lipgloss.Color("250"),
	Error:     lipgloss.Color("160"),
}

// ansiPalette keeps the layout readable on terminals without 256-color
// support; both variants degrade to it.
var ansiPalette = palette{
	Accent:    lipgloss.Color("4"),
	Text:      lipgloss.Color("7"),
	TextMuted: lipgloss.Color("8"),
	Surface:   lipgloss.Color("0"),
	Border:    lipgloss.Color("8"),
	Error:     lipgloss.Color("1"),
}

// =============================================================================
// THEME
// =============================================================================

// Theme holds all the styled components for the application.
type Theme struct {
	Name         string
	ColorProfile termenv.Profile

	// Sidebar
	Sidebar          lipgloss.Style
	SidebarTitle     lipgloss.Style
	ConversationItem lipgloss.Style
	ConversationSel  lipgloss.Style

	// Transcript
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	MessageBody    lipgloss.Style
	PendingText    lipgloss.Style
	ErrorText      lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusModel  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Spinner
	Spinner lipgloss.Style
}

// New builds a theme for the given variant ("light" or "dark"). Anything
// else falls back to dark. The detected color profile decides whether the
// 256-color palettes apply or the ANSI fallback does.
func New(name string) *Theme {
	return newWithProfile(name, termenv.ColorProfile())
}

func newWithProfile(name string, profile termenv.Profile) *Theme {
	p := darkPalette
	if name == "light" {
		p = lightPalette
	} else {
		name = "dark"
	}
	if profile == termenv.ANSI || profile == termenv.Ascii {
		p = ansiPalette
	}

	return &Theme{
		Name:         name,
		ColorProfile: profile,

		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(p.Border).
			PaddingRight(1),
		SidebarTitle: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		ConversationItem: lipgloss.NewStyle().
			Foreground(p.TextMuted),
		ConversationSel: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Bold(true),

		UserLabel: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		AssistantLabel: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),
		MessageBody: lipgloss.NewStyle().
			Foreground(p.Text),
		PendingText: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Italic(true),
		ErrorText: lipgloss.NewStyle().
			Foreground(p.Error),

		InputContainer: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		InputPrompt: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.TextMuted),
		StatusModel: lipgloss.NewStyle().
			Foreground(p.Accent),
		ShortcutKey: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),
		ShortcutDesc: lipgloss.NewStyle().
			Foreground(p.TextMuted),

		Spinner: lipgloss.NewStyle().
			Foreground(p.Accent),
	}
}
