package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"uml-studio/internal/tui/state"
)

var (
	diffDelLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	diffAddLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
	diffDelChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Underline(true)
	diffAddChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"}).Underline(true)
	faint       = lipgloss.NewStyle().Faint(true)
)

type DiffView struct {
	NoColor bool
}

func NewDiffView(noColor bool) DiffView { return DiffView{NoColor: noColor} }

// View renders discarded (the manual text that was overwritten) against
// current. Unified output is a line diff; side-by-side pairs lines and
// highlights changed characters.
func (v DiffView) View(s state.Session, discarded, current string) string {
	if discarded == "" {
		return "No discarded edits\n"
	}
	if discarded == current {
		return "No changes\n"
	}
	if s.View == state.SideBySide {
		return v.sideBySide(discarded, current, s)
	}
	return v.unified(discarded, current)
}

func (v DiffView) paint(st lipgloss.Style, text string) string {
	if v.NoColor {
		return text
	}
	return st.Render(text)
}

func (v DiffView) unified(before, after string) string {
	var b strings.Builder
	b.WriteString("DISCARDED vs CURRENT (Unified)\n")
	d := dmp.New()
	a, bb, lines := d.DiffLinesToChars(before, after)
	diffs := d.DiffCharsToLines(d.DiffMain(a, bb, false), lines)
	for _, df := range diffs {
		for _, ln := range splitLines(df.Text) {
			switch df.Type {
			case dmp.DiffDelete:
				b.WriteString(v.paint(diffDelLine, "- "+ln) + "\n")
			case dmp.DiffInsert:
				b.WriteString(v.paint(diffAddLine, "+ "+ln) + "\n")
			case dmp.DiffEqual:
				b.WriteString("  " + v.paint(faint, ln) + "\n")
			}
		}
	}
	return b.String()
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

func (v DiffView) sideBySide(before, after string, s state.Session) string {
	const sep = " │ "
	var b strings.Builder
	b.WriteString("DISCARDED │ CURRENT\n")
	left := strings.Split(before, "\n")
	right := strings.Split(after, "\n")
	max := len(left)
	if len(right) > max {
		max = len(right)
	}
	// Compute column width from total width if provided
	colWidth := 40
	if s.Width > 0 {
		// basic gutters + separator
		colWidth = (s.Width - len(sep)) / 2
		if colWidth < 10 {
			colWidth = 10
		}
	}
	d := dmp.New()
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		l = clip(l, colWidth, s.ScrollH)
		r = clip(r, colWidth, s.ScrollH)
		if l == r || v.NoColor {
			fmt.Fprintf(&b, "%s%s%s\n", pad(l, colWidth), sep, r)
			continue
		}
		// char-level spans side-by-side
		diffs := d.DiffMain(l, r, false)
		d.DiffCleanupSemantic(diffs)
		var lbuf, rbuf strings.Builder
		for _, df := range diffs {
			switch df.Type {
			case dmp.DiffDelete:
				lbuf.WriteString(diffDelChar.Render(df.Text))
			case dmp.DiffInsert:
				rbuf.WriteString(diffAddChar.Render(df.Text))
			case dmp.DiffEqual:
				lbuf.WriteString(diffDelLine.Render(df.Text))
				rbuf.WriteString(diffAddLine.Render(df.Text))
			}
		}
		fmt.Fprintf(&b, "%s%s%s\n", lipgloss.NewStyle().Width(colWidth).Render(lbuf.String()), sep, rbuf.String())
	}
	return b.String()
}

func clip(s string, width int, start int) string {
	runes := []rune(s)
	if start < 0 {
		start = 0
	}
	if start >= len(runes) {
		return ""
	}
	end := start + width
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

func pad(s string, width int) string {
	if w := len([]rune(s)); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
