package sidebar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"uml-studio/internal/generate"
	"uml-studio/internal/tui/state"
	"uml-studio/internal/tui/util"
	"uml-studio/internal/tui/views/templates"
	chips "uml-studio/internal/tui/widgets/tagchips"
)

var tips = []string{
	"Use natural language to describe your system",
	"Mention entities and their relationships",
	"Specify diagram type (class, sequence, etc.)",
	"Edit the generated code for fine-tuning",
}

// Tips returns the sidebar hints.
func Tips() []string { return append([]string(nil), tips...) }

// RenderTags is a thin adapter over the TagChips widget.
func RenderTags(tags []state.Tag, p util.Palette, noColor bool) string {
	return chips.View(tags, p, noColor)
}

// GenerateLabel is the generate button caption for the current state.
func GenerateLabel(s state.Session) string {
	switch {
	case s.IsGenerating:
		return "Generating..."
	case generate.IsBlank(s.Description):
		return "Generate UML (type a description first)"
	default:
		return "Generate UML (g)"
	}
}

// Render composes the sidebar: generation prompt, template picker, tips and
// the source status chips. prompt is the rendered description text area.
func Render(s state.Session, prompt string, p util.Palette, noColor bool, width int) string {
	title := lipgloss.NewStyle().Bold(true)
	if !noColor {
		title = title.Foreground(p.Primary)
	}
	muted := lipgloss.NewStyle()
	if !noColor {
		muted = muted.Foreground(p.Muted)
	}
	sep := strings.Repeat("─", max(width, 4))

	var b strings.Builder
	b.WriteString(title.Render("✦ AI Generation") + "\n")
	b.WriteString(prompt + "\n")
	b.WriteString(GenerateLabel(s) + "\n")
	b.WriteString(sep + "\n")

	b.WriteString(title.Render("Templates") + "\n")
	for _, row := range templates.RenderOptions(s.DiagramType) {
		b.WriteString(row + "\n")
	}
	b.WriteString(sep + "\n")

	b.WriteString(title.Render("Tips") + "\n")
	for _, t := range tips {
		b.WriteString(muted.Render("• "+t) + "\n")
	}
	b.WriteString(sep + "\n")
	b.WriteString(RenderTags(util.ComputeTags(s), p, noColor))
	return lipgloss.NewStyle().Width(width).Render(b.String())
}
