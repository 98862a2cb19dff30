package state

import "uml-studio/internal/catalog"

// EditorMode represents the editor's current input mode.
type EditorMode int

const (
	CMD EditorMode = iota
	INSERT
)

// DiffMode controls how the discarded-edits diff is rendered.
type DiffMode int

const (
	Unified DiffMode = iota
	SideBySide
)

// Tab is the main pane layout.
type Tab int

const (
	TabEditor Tab = iota
	TabPreview
	TabSplit
)

func (t Tab) String() string {
	switch t {
	case TabPreview:
		return "Preview"
	case TabSplit:
		return "Split View"
	default:
		return "Editor"
	}
}

// Tabs lists tabs in display order.
func Tabs() []Tab { return []Tab{TabEditor, TabPreview, TabSplit} }

// Origin records where the current source text came from.
type Origin int

const (
	FromTemplate Origin = iota
	FromGenerator
	FromEditor
)

// Focus selects which text area receives keys in INSERT mode.
type Focus int

const (
	FocusEditor Focus = iota
	FocusPrompt
)

// Session is the whole mutable state of one editing session. It is only
// changed through the reducers in this package.
type Session struct {
	// Diagram
	Source      string
	DiagramType catalog.DiagramType
	Origin      Origin
	Rev         uint64 // bumped on every change to Source
	Discarded   string // manual text lost to the last template/generation write

	// Generation
	Description  string
	IsGenerating bool
	Seq          uint64 // last issued generation id
	Pending      uint64 // in-flight generation id, 0 when idle

	// Mode & view
	Mode       EditorMode
	Focus      Focus
	ActiveTab  Tab
	IsDarkMode bool
	View       DiffMode

	// Layout & scrolling
	Width   int
	Height  int
	MinCol  int
	ScrollH int

	// Notices and ephemeral messages
	Notice string
}
