// Package preview renders the diagram pane: server-rendered ASCII art when a
// PlantUML server is reachable, the raw source otherwise.
package preview

import (
	"fmt"
	"strings"
)

// Input is everything the pane needs for one frame.
type Input struct {
	Source       string
	IsGenerating bool
	Spinner      string // current spinner frame

	Art     string // server output for Source; empty until fetched
	Err     error  // last fetch error for Source
	Offline bool   // no server configured
	Link    string // share link shown under offline/error output

	ScrollH int
	Width   int
}

// Header is the pane title line with the generation status on the right.
func Header(isGenerating bool, width int) string {
	left := "Diagram Preview"
	right := "Ready"
	if isGenerating {
		right = "Generating..."
	}
	gap := width - len(left) - len(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

// Body is the scrollable pane content.
func Body(in Input) string {
	if in.IsGenerating {
		return fmt.Sprintf("\n  %s Generating diagram...\n", in.Spinner)
	}
	var b strings.Builder
	switch {
	case in.Art != "":
		b.WriteString(pan(in.Art, in.ScrollH, in.Width))
	case in.Err != nil:
		fmt.Fprintf(&b, "Preview unavailable: %v\n\n", in.Err)
		b.WriteString(pan(in.Source, in.ScrollH, in.Width))
	case in.Offline:
		b.WriteString("Offline: no PlantUML server configured; showing source.\n\n")
		b.WriteString(pan(in.Source, in.ScrollH, in.Width))
	default:
		b.WriteString("Rendering...\n")
	}
	if in.Link != "" && in.Art == "" {
		b.WriteString("\n\n" + in.Link + "\n")
	}
	return b.String()
}

// pan clips every line to the window [scroll, scroll+width).
func pan(text string, scroll, width int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, ln := range lines {
		r := []rune(ln)
		if scroll >= len(r) {
			lines[i] = ""
			continue
		}
		r = r[scroll:]
		if width > 0 && len(r) > width {
			r = r[:width]
		}
		lines[i] = string(r)
	}
	return strings.Join(lines, "\n")
}
