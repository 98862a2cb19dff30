package helpoverlay

import (
	"fmt"
	"strings"

	"uml-studio/internal/tui/state"
)

type HelpOverlay struct{}

func NewHelpOverlay() HelpOverlay { return HelpOverlay{} }

// View returns grouped keys help with the current mode indicated.
func (HelpOverlay) View(s state.Session) string {
	mode := "CMD"
	if s.Mode == state.INSERT {
		mode = "INSERT"
	}
	sections := []struct {
		title string
		keys  []string
	}{
		{"Generate", []string{"p: edit description", "g / enter / ctrl+g: generate", "x: cancel generation"}},
		{"Templates", []string{"1: class", "2: sequence", "3: activity"}},
		{"View", []string{"tab / shift+tab: editor, preview, split", "D: dark mode", "d: discarded edits diff", "v: unified/side-by-side diff", "c: forget discarded (in diff)", "h/l or ←/→: pan preview", "H/L: pan fast", "j/k: scroll preview"}},
		{"Actions", []string{"y: copy source", "s: share links", "e: export", "r: refresh preview"}},
		{"Editor", []string{"i: INSERT mode", "Esc: CMD mode", "?: help", "q: quit"}},
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Help (Mode: %s)\n", mode)
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n%s:\n", sec.title)
		for _, k := range sec.keys {
			fmt.Fprintf(&b, "  %s\n", k)
		}
	}
	return b.String()
}
