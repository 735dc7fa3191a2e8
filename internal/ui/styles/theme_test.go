// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestNew(t *testing.T) {
	for _, name := range []string{"dark", "light"} {
		theme := New(name)
		if theme.Name != name {
			t.Errorf("Name = %q, want %q", theme.Name, name)
		}
	}

	// Unknown variants fall back to dark rather than failing.
	if theme := New("solarized"); theme.Name != "dark" {
		t.Errorf("fallback Name = %q, want dark", theme.Name)
	}
}

func TestNew_DegradesOnLowColorTerminals(t *testing.T) {
	theme := newWithProfile("dark", termenv.ANSI)
	if theme.ColorProfile != termenv.ANSI {
		t.Errorf("ColorProfile = %v, want ANSI", theme.ColorProfile)
	}
	if got := theme.ErrorText.GetForeground(); got != lipgloss.Color("1") {
		t.Errorf("ErrorText foreground = %v, want ANSI red", got)
	}

	// 256-color terminals keep the full palette.
	full := newWithProfile("dark", termenv.ANSI256)
	if got := full.ErrorText.GetForeground(); got != lipgloss.Color("203") {
		t.Errorf("ErrorText foreground = %v, want 256-color", got)
	}
}
