package editor

import (
	"fmt"
	"strings"

	"uml-studio/internal/tui/state"
)

type Editor struct{}

func NewEditor() Editor { return Editor{} }

// View frames the editor body (the rendered text area) with a header that
// carries the mode and syntax, padded to width.
func (Editor) View(s state.Session, body string, width int) string {
	mode := "[CMD]"
	if s.Mode == state.INSERT && s.Focus == state.FocusEditor {
		mode = "[INSERT]"
	}
	left := "PlantUML Code " + mode
	right := "Syntax: PlantUML"
	gap := width - len([]rune(left)) - len([]rune(right))
	if gap < 2 {
		gap = 2
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s\n", left, strings.Repeat(" ", gap), right)
	b.WriteString(body)
	return b.String()
}
