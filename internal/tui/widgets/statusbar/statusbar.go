package statusbar

import (
	"strings"

	"uml-studio/internal/tui/state"
)

type StatusBar struct{}

func NewStatusBar() StatusBar { return StatusBar{} }

// View composes a concise status line reflecting key UI state.
func (StatusBar) View(s state.Session) string {
	mode := "[CMD]"
	if s.Mode == state.INSERT {
		mode = "[INSERT:editor]"
		if s.Focus == state.FocusPrompt {
			mode = "[INSERT:prompt]"
		}
	}
	theme := "Light"
	if s.IsDarkMode {
		theme = "Dark"
	}
	status := "Ready"
	if s.IsGenerating {
		status = "Generating..."
	}

	parts := []string{mode, s.ActiveTab.String(), string(s.DiagramType), theme, status}
	if s.Notice != "" && s.Notice != "[INSERT]" && s.Notice != "[CMD]" {
		parts = append(parts, s.Notice)
	}
	return strings.Join(parts, "  ")
}
