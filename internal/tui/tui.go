package tui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"uml-studio/internal/catalog"
	"uml-studio/internal/generate"
	"uml-studio/internal/logx"
	"uml-studio/internal/render"
	"uml-studio/internal/tui/state"
	"uml-studio/internal/tui/util"
	"uml-studio/internal/tui/views/sidebar"
	"uml-studio/internal/tui/views/templates"
	"uml-studio/internal/tui/widgets/diff"
	"uml-studio/internal/tui/widgets/editor"
	"uml-studio/internal/tui/widgets/helpoverlay"
	"uml-studio/internal/tui/widgets/preview"
	"uml-studio/internal/tui/widgets/statusbar"
)

const (
	previewDebounce = 400 * time.Millisecond
	previewTimeout  = 15 * time.Second
	maxSidebarWidth = 40
)

// Renderer is the diagram rendering collaborator (a PlantUML server client).
type Renderer interface {
	Offline() bool
	URL(source string, f render.Format) (string, error)
	Render(ctx context.Context, source string, f render.Format) ([]byte, error)
}

// Options configure one TUI session.
type Options struct {
	Type          catalog.DiagramType
	DarkMode      bool
	GenerateDelay time.Duration
	Renderer      Renderer // nil means offline
	ExportDir     string
	NoColor       bool
	// Copy writes to the system clipboard; defaults to clipboard.WriteAll.
	Copy func(string) error
}

// Run opens the studio on the alternate screen and blocks until the user quits.
func Run(opts Options) error {
	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ===== Model =====

type mode string

const (
	modeMain   mode = "main"   // editor / preview / split
	modeHelp   mode = "help"   // key overlay
	modeDiff   mode = "diff"   // discarded edits
	modeShare  mode = "share"  // share links
	modeExport mode = "export" // export path prompt
)

type model struct {
	s    state.Session
	mode mode

	editor  textarea.Model
	prompt  textarea.Model
	preview viewport.Model
	spinner spinner.Model

	delay     time.Duration
	renderer  Renderer
	exportDir string
	copy      func(string) error
	noColor   bool

	// last preview fetch; only shown while artRev == s.Rev
	art    string
	artErr error
	artRev uint64

	share  shareModel
	export exportModel
}

type generatedMsg struct {
	id     uint64
	result generate.Result
}

type previewDueMsg struct{ rev uint64 }

type previewMsg struct {
	rev uint64
	art string
	err error
}

func newModel(opts Options) model {
	if !opts.Type.Valid() {
		opts.Type = catalog.Class
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	s := state.NewSession(opts.Type)
	s.IsDarkMode = opts.DarkMode
	lipgloss.SetHasDarkBackground(s.IsDarkMode)

	ed := textarea.New()
	ed.ShowLineNumbers = true
	ed.CharLimit = 0
	ed.MaxHeight = 0
	ed.SetValue(s.Source)
	ed.Blur()

	pr := textarea.New()
	pr.Placeholder = "Describe your system in natural language..."
	pr.ShowLineNumbers = false
	pr.CharLimit = 0
	pr.SetHeight(4)
	pr.Blur()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := model{
		s:         s,
		mode:      modeMain,
		editor:    ed,
		prompt:    pr,
		preview:   viewport.New(80, 20),
		spinner:   sp,
		delay:     opts.GenerateDelay,
		renderer:  opts.Renderer,
		exportDir: opts.ExportDir,
		copy:      opts.Copy,
		noColor:   util.NoColor(opts.NoColor),
	}
	m.s = state.Resize(m.s, 120, 36)
	m.layout()
	m.syncPreview()
	return m
}

func (m model) Init() tea.Cmd { return nil }

// Update handles all TUI interactions.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncPreview()
	return next, cmd
}

func (m model) update(msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.s = state.Resize(m.s, msg.Width, msg.Height)
		m.layout()
		return m, m.schedulePreview()

	case spinner.TickMsg:
		if !m.s.IsGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generatedMsg:
		if msg.id != m.s.Pending {
			logx.Debug("stale generation dropped", "id", msg.id, "pending", m.s.Pending)
			return m, nil
		}
		m.apply(state.CompleteGenerate(m.s, msg.id, msg.result))
		logx.Info("generation complete", "id", msg.id, "rule", msg.result.Rule)
		return m, m.schedulePreview()

	case previewDueMsg:
		if msg.rev != m.s.Rev || m.offline() {
			return m, nil
		}
		return m, m.fetchPreview()

	case previewMsg:
		if msg.rev != m.s.Rev {
			return m, nil
		}
		m.art, m.artErr, m.artRev = msg.art, msg.err, msg.rev
		if msg.err != nil {
			logx.Warn("preview render failed", "err", msg.err)
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.s = state.SetNotice(m.s, "Export failed: "+msg.err.Error())
			logx.Error("export failed", "path", msg.path, "err", msg.err)
		} else {
			m.s = state.SetNotice(m.s, "Exported "+msg.path)
			logx.Info("exported", "path", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeHelp:
			m.mode = modeMain
			return m, nil
		case modeDiff:
			return m.updateDiff(msg)
		case modeShare:
			return m.updateShare(msg)
		case modeExport:
			return m.updateExport(msg)
		}
		if m.s.Mode == state.INSERT {
			return m.updateInsert(msg)
		}
		return m.updateCmd(msg)
	}
	return m, nil
}

// apply installs a new session and mirrors non-editor source changes into the
// editor text area.
func (m *model) apply(next state.Session) {
	if next.Rev != m.s.Rev && next.Origin != state.FromEditor {
		m.editor.SetValue(next.Source)
	}
	m.s = next
}

func (m model) updateInsert(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.editor.Blur()
		m.prompt.Blur()
		m.s = state.ExitInsert(m.s)
		return m, nil
	case "ctrl+g":
		return m.startGenerate()
	}

	var cmd tea.Cmd
	if m.s.Focus == state.FocusPrompt {
		m.prompt, cmd = m.prompt.Update(msg)
		m.s = state.SetDescription(m.s, m.prompt.Value())
		return m, cmd
	}
	m.editor, cmd = m.editor.Update(msg)
	if v := m.editor.Value(); v != m.s.Source {
		wasGenerating := m.s.IsGenerating
		m.apply(state.EditSource(m.s, v))
		if wasGenerating {
			logx.Debug("generation cancelled by edit")
		}
		return m, tea.Batch(cmd, m.schedulePreview())
	}
	return m, cmd
}

func (m model) updateCmd(msg tea.KeyMsg) (model, tea.Cmd) {
	k := msg.String()
	if t, ok := templates.ForKey(k); ok {
		m.apply(state.SelectTemplate(m.s, t))
		logx.Debug("template selected", "type", t)
		return m, m.schedulePreview()
	}

	switch k {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.mode = modeHelp
		return m, nil
	case "i":
		if m.s.ActiveTab == state.TabPreview {
			m.s = state.SetTab(m.s, state.TabEditor)
		}
		m.s = state.EnterInsert(m.s, state.FocusEditor)
		cmd := m.editor.Focus()
		return m, cmd
	case "p":
		m.s = state.EnterInsert(m.s, state.FocusPrompt)
		cmd := m.prompt.Focus()
		return m, cmd
	case "g", "ctrl+g", "enter":
		return m.startGenerate()
	case "x":
		if m.s.IsGenerating {
			m.s = state.CancelGenerate(m.s)
			logx.Debug("generation cancelled")
		}
		return m, nil
	case "tab":
		m.s = state.NextTab(m.s)
		m.layout()
		return m, m.schedulePreview()
	case "shift+tab":
		m.s = state.PrevTab(m.s)
		m.layout()
		return m, m.schedulePreview()
	case "D":
		m.s = state.ToggleDarkMode(m.s)
		lipgloss.SetHasDarkBackground(m.s.IsDarkMode)
		return m, nil
	case "d":
		if m.s.Discarded == "" {
			m.s = state.SetNotice(m.s, "No discarded edits")
			return m, nil
		}
		m.mode = modeDiff
		return m, nil
	case "y":
		if err := m.copy(m.s.Source); err != nil {
			m.s = state.SetNotice(m.s, "Copy failed: "+err.Error())
		} else {
			m.s = state.SetNotice(m.s, "Copied PlantUML source")
		}
		return m, nil
	case "s":
		m.share = newShareModel(m.renderer, m.s.Source)
		m.mode = modeShare
		return m, nil
	case "e":
		m.export = newExportModel(m.exportDir, m.s.DiagramType)
		m.mode = modeExport
		return m, nil
	case "r":
		m.art, m.artErr, m.artRev = "", nil, 0
		if m.offline() {
			return m, nil
		}
		return m, m.fetchPreview()
	case "h", "left":
		m.s = state.ScrollLeft(m.s, false)
		return m, nil
	case "l", "right":
		m.s = state.ScrollRight(m.s, false)
		return m, nil
	case "H":
		m.s = state.ScrollLeft(m.s, true)
		return m, nil
	case "L":
		m.s = state.ScrollRight(m.s, true)
		return m, nil
	case "j", "k", "up", "down", "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateDiff(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "b", "d":
		m.mode = modeMain
	case "v":
		m.s = state.ToggleView(m.s)
		m.s = state.Resize(m.s, m.s.Width, m.s.Height)
	case "c":
		m.s = state.ClearDiscarded(m.s)
		m.mode = modeMain
	case "h", "left":
		m.s = state.ScrollLeft(m.s, false)
	case "l", "right":
		m.s = state.ScrollRight(m.s, false)
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) startGenerate() (model, tea.Cmd) {
	next, id, ok := state.BeginGenerate(m.s)
	if !ok {
		return m, nil
	}
	m.s = next
	logx.Debug("generation started", "id", id, "delay", m.delay)
	return m, tea.Batch(generateCmd(id, m.s.Description, m.delay), m.spinner.Tick)
}

// generateCmd fires once the simulated latency has elapsed. The id lets the
// model drop results that were cancelled or superseded in the meantime.
func generateCmd(id uint64, description string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return generatedMsg{id: id, result: generate.Classify(description)}
	})
}

func (m model) offline() bool {
	return m.renderer == nil || m.renderer.Offline()
}

func (m model) previewVisible() bool {
	return m.s.ActiveTab != state.TabEditor
}

// schedulePreview debounces a fetch for the current revision.
func (m model) schedulePreview() tea.Cmd {
	if m.offline() || !m.previewVisible() || m.artRev == m.s.Rev {
		return nil
	}
	rev := m.s.Rev
	return tea.Tick(previewDebounce, func(time.Time) tea.Msg { return previewDueMsg{rev: rev} })
}

func (m model) fetchPreview() tea.Cmd {
	r, src, rev := m.renderer, m.s.Source, m.s.Rev
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
		defer cancel()
		b, err := r.Render(ctx, src, render.FormatText)
		return previewMsg{rev: rev, art: string(b), err: err}
	}
}

// ===== Layout =====

func (m *model) sidebarWidth() int {
	w := maxSidebarWidth
	if m.s.Width > 0 && m.s.Width/3 < w {
		w = m.s.Width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

// paneWidths returns editor and preview widths for the active tab.
func (m *model) paneWidths() (int, int) {
	avail := m.s.Width - m.sidebarWidth() - 3
	if avail < 20 {
		avail = 20
	}
	switch m.s.ActiveTab {
	case state.TabPreview:
		return 0, avail
	case state.TabSplit:
		half := (avail - 3) / 2
		return half, avail - 3 - half
	default:
		return avail, 0
	}
}

func (m *model) bodyHeight() int {
	h := m.s.Height - 4 // header, blank, status, spare
	if h < 8 {
		h = 8
	}
	return h
}

func (m *model) layout() {
	ew, pw := m.paneWidths()
	h := m.bodyHeight()
	if ew > 0 {
		m.editor.SetWidth(ew)
	}
	m.editor.SetHeight(h - 1)
	m.prompt.SetWidth(m.sidebarWidth() - 2)
	if pw > 0 {
		m.preview.Width = pw
	}
	m.preview.Height = h - 1
}

func (m *model) syncPreview() {
	_, pw := m.paneWidths()
	in := preview.Input{
		Source:       m.s.Source,
		IsGenerating: m.s.IsGenerating,
		Spinner:      m.spinner.View(),
		Offline:      m.offline(),
		ScrollH:      m.s.ScrollH,
		Width:        pw,
	}
	if m.artRev == m.s.Rev {
		in.Art, in.Err = m.art, m.artErr
	}
	if !in.Offline && in.Art == "" {
		in.Link, _ = m.renderer.URL(m.s.Source, render.FormatEditor)
	}
	m.preview.SetContent(preview.Body(in))
}

// ===== Views =====

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	selStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "205", Dark: "213"}).Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	tabStyle   = lipgloss.NewStyle().Padding(0, 1)
	badgeStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), false, true).Padding(0, 1)
)

func (m model) View() string {
	switch m.mode {
	case modeHelp:
		return helpoverlay.NewHelpOverlay().View(m.s) + "\n" + faintStyle.Render("any key: back")
	case modeDiff:
		return m.viewDiff()
	case modeShare:
		return m.viewShare()
	case modeExport:
		return m.viewExport()
	}

	pal := util.PaletteFor(m.s.IsDarkMode)
	sbw := m.sidebarWidth()
	side := sidebar.Render(m.s, m.prompt.View(), pal, m.noColor, sbw)
	side = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		PaddingRight(1).
		Height(m.bodyHeight()).
		Render(side)

	body := lipgloss.JoinHorizontal(lipgloss.Top, side, " ", m.viewPanes())
	status := statusbar.NewStatusBar().View(m.s)
	return m.viewHeader() + "\n\n" + body + "\n" + faintStyle.Render(status)
}

func (m model) viewHeader() string {
	title := titleStyle.Render("UML Studio") + " " + badgeStyle.Render("Beta")
	tabs := make([]string, 0, 3)
	for _, t := range state.Tabs() {
		if t == m.s.ActiveTab {
			tabs = append(tabs, selStyle.Render(tabStyle.Render("["+t.String()+"]")))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}
	right := faintStyle.Render("y copy  e export  s share  ? help")
	return title + "   " + strings.Join(tabs, "") + "   " + right
}

func (m model) viewPanes() string {
	ew, pw := m.paneWidths()
	var ed, pv string
	if ew > 0 {
		ed = editor.NewEditor().View(m.s, m.editor.View(), ew)
	}
	if pw > 0 {
		pv = preview.Header(m.s.IsGenerating, pw) + "\n" + m.preview.View()
	}
	switch {
	case ew > 0 && pw > 0:
		return lipgloss.JoinHorizontal(lipgloss.Top, ed, " │ ", pv)
	case pw > 0:
		return pv
	default:
		return ed
	}
}

func (m model) viewDiff() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Discarded edits") + "\n")
	b.WriteString(faintStyle.Render("Manual text replaced by the last template or generation.") + "\n\n")
	b.WriteString(diff.NewDiffView(m.noColor).View(m.s, m.s.Discarded, m.s.Source))
	b.WriteString("\nv: unified/side-by-side   h/l: scroll   c: forget   b: back\n")
	if m.s.Notice != "" {
		b.WriteString(faintStyle.Render(m.s.Notice) + "\n")
	}
	return b.String()
}

// Session exposes the current session, mainly for tests and callers that
// embed the model.
func (m model) Session() state.Session { return m.s }
