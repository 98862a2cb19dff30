package tagchips

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"uml-studio/internal/tui/state"
	"uml-studio/internal/tui/util"
)

// View renders source tags in a stable order using colored chips when
// possible and ASCII fallbacks when color is disabled or not desired.
func View(tags []state.Tag, p util.Palette, noColor bool) string {
	if len(tags) == 0 {
		return ""
	}
	// Honor NO_COLOR env var in addition to explicit param
	if !noColor && os.Getenv("NO_COLOR") != "" {
		noColor = true
	}

	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, renderChip(t, p, noColor))
	}
	return strings.Join(parts, " ")
}

func renderChip(t state.Tag, p util.Palette, noColor bool) string {
	label := chipLabel(t)
	if noColor {
		return fmt.Sprintf("[%s]", label)
	}
	return chipStyle(t, p).Render(label)
}

func chipLabel(t state.Tag) string {
	switch t.Kind {
	case state.TEMPLATE:
		if t.Label == "" {
			return "Template"
		}
		return "Template: " + t.Label
	case state.GENERATED:
		return "Generated"
	case state.EDITED:
		return "Edited"
	case state.GENERATING:
		return "Generating"
	case state.DISCARDED:
		return "Discarded edits"
	case state.LINES:
		return fmt.Sprintf("Lines %d", t.Value)
	case state.CHARS:
		return fmt.Sprintf("Chars %d", t.Value)
	default:
		return "Tag"
	}
}

func chipStyle(t state.Tag, p util.Palette) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	switch t.Kind {
	case state.TEMPLATE:
		return base.Background(p.Primary)
	case state.GENERATED:
		return base.Background(p.Success)
	case state.EDITED:
		return base.Background(p.Warning).Foreground(lipgloss.Color("#111111"))
	case state.GENERATING:
		return base.Background(p.Primary).Blink(true)
	case state.DISCARDED:
		return base.Background(p.Danger)
	case state.LINES:
		return base.Background(p.Muted)
	case state.CHARS:
		return base.Background(p.MutedDark)
	default:
		return base
	}
}
