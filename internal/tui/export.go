package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"uml-studio/internal/catalog"
	"uml-studio/internal/logx"
	"uml-studio/internal/render"
	"uml-studio/internal/tui/state"
)

// ErrExportOffline is returned when a rendered format is requested without a server.
var ErrExportOffline = errors.New("rendered export needs a PlantUML server")

type exportModel struct {
	inputBuf string
	suggest  []string
	msg      string
}

type exportedMsg struct {
	path string
	err  error
}

func newExportModel(dir string, t catalog.DiagramType) exportModel {
	if t == "" {
		t = catalog.Class
	}
	return exportModel{inputBuf: filepath.Join(dir, string(t)+".puml")}
}

func (e *exportModel) computeSuggestions() {
	in := e.inputBuf
	if strings.TrimSpace(in) == "" {
		e.suggest = nil
		return
	}
	expanded := expandPath(in)
	dir := expanded
	base := ""
	if fi, err := os.Stat(expanded); err != nil || !fi.IsDir() {
		dir = filepath.Dir(expanded)
		base = filepath.Base(expanded)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		e.suggest = nil
		return
	}
	var out []string
	for _, ent := range entries {
		name := ent.Name()
		if base == "" || strings.Contains(strings.ToLower(name), strings.ToLower(base)) {
			cand := filepath.Join(dir, name)
			if h, _ := os.UserHomeDir(); h != "" && strings.HasPrefix(cand, h) {
				cand = "~" + strings.TrimPrefix(cand, h)
			}
			out = append(out, cand)
		}
		if len(out) >= 8 {
			break
		}
	}
	e.suggest = out
}

// expandPath resolves ~ and environment variables to an absolute path.
func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if strings.HasPrefix(p, "~/") {
		if h, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(h, p[2:])
		}
	}
	p = os.ExpandEnv(p)
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}

// Export writes source to path. .svg, .png and .txt names are rendered by r;
// every other name receives the PlantUML text.
func Export(ctx context.Context, r Renderer, path, source string) error {
	data := []byte(source + "\n")
	if f, ok := render.FormatForPath(path); ok {
		if r == nil || r.Offline() {
			return ErrExportOffline
		}
		b, err := r.Render(ctx, source, f)
		if err != nil {
			return err
		}
		data = b
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func exportCmd(r Renderer, path, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
		defer cancel()
		return exportedMsg{path: path, err: Export(ctx, r, path, source)}
	}
}

func (m model) updateExport(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		if strings.TrimSpace(m.export.inputBuf) == "" {
			m.export.msg = "! enter a file name"
			return m, nil
		}
		path := expandPath(m.export.inputBuf)
		m.mode = modeMain
		m.s = state.SetNotice(m.s, "Exporting "+path+"...")
		logx.Debug("export requested", "path", path)
		return m, exportCmd(m.renderer, path, m.s.Source)
	case "tab":
		if len(m.export.suggest) > 0 {
			m.export.inputBuf = m.export.suggest[0]
			m.export.computeSuggestions()
		}
		return m, nil
	case "esc":
		m.mode = modeMain
		return m, nil
	}
	if msg.Type == tea.KeyBackspace || msg.Type == tea.KeyCtrlH {
		if r := []rune(m.export.inputBuf); len(r) > 0 {
			m.export.inputBuf = string(r[:len(r)-1])
		}
	} else if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.export.inputBuf += string(msg.Runes)
	}
	m.export.msg = ""
	m.export.computeSuggestions()
	return m, nil
}

func (m model) viewExport() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Export diagram") + "\n\n")
	if m.export.msg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Render(m.export.msg) + "\n")
	}
	b.WriteString("Path: " + m.export.inputBuf + "\n")
	for _, s := range m.export.suggest {
		b.WriteString(faintStyle.Render("  • ") + s + "\n")
	}
	b.WriteString("\n.puml writes the source; .svg .png .txt are rendered by the server\n")
	b.WriteString("enter: export   tab: autocomplete   esc: cancel\n")
	return b.String()
}
