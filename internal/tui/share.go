package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"uml-studio/internal/logx"
	"uml-studio/internal/render"
)

// ShareLink is one copyable link for the current diagram.
type ShareLink struct {
	Label string
	URL   string
}

type shareModel struct {
	items  []ShareLink
	sel    int
	status string
}

// ShareLinks lists the server links for source: the online editor first, then
// each rendered format. Offline renderers yield only the encoded text.
func ShareLinks(r Renderer, source string) ([]ShareLink, error) {
	if r == nil || r.Offline() {
		enc, err := render.Encode(source)
		if err != nil {
			return nil, err
		}
		return []ShareLink{{Label: "Encoded", URL: enc}}, nil
	}
	labels := map[render.Format]string{
		render.FormatEditor: "Editor",
		render.FormatSVG:    "SVG",
		render.FormatPNG:    "PNG",
		render.FormatText:   "ASCII",
	}
	order := []render.Format{render.FormatEditor, render.FormatSVG, render.FormatPNG, render.FormatText}
	out := make([]ShareLink, 0, len(order))
	for _, f := range order {
		u, err := r.URL(source, f)
		if err != nil {
			return nil, err
		}
		out = append(out, ShareLink{Label: labels[f], URL: u})
	}
	return out, nil
}

func newShareModel(r Renderer, source string) shareModel {
	items, err := ShareLinks(r, source)
	if err != nil {
		return shareModel{status: "Encode failed: " + err.Error()}
	}
	sm := shareModel{items: items}
	if r == nil || r.Offline() {
		sm.status = "Offline: no PlantUML server configured"
	}
	return sm
}

func (m model) updateShare(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc", "b", "s":
		m.mode = modeMain
	case "j", "down":
		if m.share.sel < len(m.share.items)-1 {
			m.share.sel++
		}
	case "k", "up":
		if m.share.sel > 0 {
			m.share.sel--
		}
	case "home":
		m.share.sel = 0
	case "end":
		m.share.sel = max(len(m.share.items)-1, 0)
	case "enter", "y":
		if m.share.sel < 0 || m.share.sel >= len(m.share.items) {
			return m, nil
		}
		it := m.share.items[m.share.sel]
		if err := m.copy(it.URL); err != nil {
			m.share.status = "Copy failed: " + err.Error()
		} else {
			m.share.status = "Copied " + it.Label + " link"
			logx.Debug("share link copied", "label", it.Label)
		}
	}
	return m, nil
}

func (m model) viewShare() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Share diagram") + "\n\n")
	if len(m.share.items) == 0 {
		b.WriteString("  (nothing to share)\n")
	}
	for i, it := range m.share.items {
		hdr := fmt.Sprintf("%d) %s", i+1, it.Label)
		if i == m.share.sel {
			hdr = selStyle.Render("> " + hdr)
		} else {
			hdr = "  " + hdr
		}
		b.WriteString(hdr + "\n")
		b.WriteString("    " + it.URL + "\n")
	}
	b.WriteString("\n(j/k select) (enter/y) copy (b) back\n")
	if strings.TrimSpace(m.share.status) != "" {
		b.WriteString(faintStyle.Render(m.share.status) + "\n")
	}
	return b.String()
}
