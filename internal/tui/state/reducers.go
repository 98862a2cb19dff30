package state

import (
	"fmt"

	"uml-studio/internal/catalog"
	"uml-studio/internal/generate"
)

// NewSession starts a session on the template for t.
func NewSession(t catalog.DiagramType) Session {
	s := Session{MinCol: 30}
	s = SelectTemplate(s, t)
	s.Notice = ""
	return s
}

func setSource(s Session, src string, o Origin) Session {
	if src != s.Source {
		s.Source = src
		s.Rev++
	}
	s.Origin = o
	return s
}

func cancelPending(s Session, notice string) Session {
	if s.Pending == 0 {
		return s
	}
	s.Pending = 0
	s.IsGenerating = false
	s.Notice = notice
	return s
}

// SelectTemplate switches the diagram type and replaces the source with its
// template. Manual edits are dropped (kept in Discarded) and any in-flight
// generation is cancelled.
func SelectTemplate(s Session, t catalog.DiagramType) Session {
	tmpl := catalog.Get(t)
	if s.Origin == FromEditor && s.Source != tmpl {
		s.Discarded = s.Source
	}
	s = cancelPending(s, "")
	s.DiagramType = t
	s = setSource(s, tmpl, FromTemplate)
	s.Notice = "Loaded " + t.Label()
	return s
}

// EditSource applies a manual edit. An in-flight generation is cancelled so
// its late result cannot overwrite the edit.
func EditSource(s Session, src string) Session {
	if src == s.Source {
		return s
	}
	s = cancelPending(s, "Generation cancelled: editor changed")
	return setSource(s, src, FromEditor)
}

// SetDescription stores the generation prompt.
func SetDescription(s Session, d string) Session {
	s.Description = d
	return s
}

// BeginGenerate issues a new generation id. ok is false, and s is returned
// unchanged, for a blank description or while another generation is pending.
func BeginGenerate(s Session) (Session, uint64, bool) {
	if generate.IsBlank(s.Description) || s.Pending != 0 {
		return s, 0, false
	}
	s.Seq++
	s.Pending = s.Seq
	s.IsGenerating = true
	s.Notice = "Generating..."
	return s, s.Seq, true
}

// CompleteGenerate applies r if id is still the pending generation; stale or
// cancelled ids are ignored.
func CompleteGenerate(s Session, id uint64, r generate.Result) Session {
	if id == 0 || id != s.Pending {
		return s
	}
	if s.Origin == FromEditor && s.Source != r.Source {
		s.Discarded = s.Source
	}
	s.Pending = 0
	s.IsGenerating = false
	s = setSource(s, r.Source, FromGenerator)
	if r.Fallback() {
		s.Notice = "Generated generic diagram"
	} else {
		s.Notice = fmt.Sprintf("Generated from %s template (%s)", r.Type, r.Rule)
	}
	return s
}

// CancelGenerate drops the in-flight generation, if any.
func CancelGenerate(s Session) Session {
	return cancelPending(s, "Generation cancelled")
}

// SetTab selects a main pane layout.
func SetTab(s Session, t Tab) Session {
	s.ActiveTab = t
	return s
}

// NextTab cycles editor -> preview -> split -> editor.
func NextTab(s Session) Session {
	s.ActiveTab = (s.ActiveTab + 1) % Tab(len(Tabs()))
	return s
}

// PrevTab cycles in reverse.
func PrevTab(s Session) Session {
	n := Tab(len(Tabs()))
	s.ActiveTab = (s.ActiveTab + n - 1) % n
	return s
}

// ToggleDarkMode flips the colour scheme.
func ToggleDarkMode(s Session) Session {
	s.IsDarkMode = !s.IsDarkMode
	if s.IsDarkMode {
		s.Notice = "Dark mode"
	} else {
		s.Notice = "Light mode"
	}
	return s
}

// EnterInsert focuses f for typing.
func EnterInsert(s Session, f Focus) Session {
	s.Mode = INSERT
	s.Focus = f
	s.Notice = "[INSERT]"
	return s
}

// ExitInsert returns to command keys.
func ExitInsert(s Session) Session {
	s.Mode = CMD
	s.Notice = "[CMD]"
	return s
}

// ToggleView switches between Unified and SideBySide diff views.
func ToggleView(s Session) Session {
	if s.View == Unified {
		s.View = SideBySide
	} else {
		s.View = Unified
	}
	return s
}

// Resize updates the layout and sets a fallback notice if too narrow for side-by-side.
// Threshold heuristic: need at least 2*MinCol plus 3 chars for separator/gutters.
func Resize(s Session, width, height int) Session {
	s.Width = width
	s.Height = height
	threshold := 2*s.MinCol + 3
	if s.View == SideBySide && s.Width < threshold {
		s.View = Unified
		s.Notice = "Narrow width: using unified view"
	}
	return s
}

// ScrollLeft pans the preview left.
func ScrollLeft(s Session, fast bool) Session {
	delta := 1
	if fast {
		delta = 8
	}
	if s.ScrollH >= delta {
		s.ScrollH -= delta
	} else {
		s.ScrollH = 0
	}
	return s
}

// ScrollRight pans the preview right.
func ScrollRight(s Session, fast bool) Session {
	delta := 1
	if fast {
		delta = 8
	}
	s.ScrollH += delta
	return s
}

// ClearDiscarded forgets the last discarded edit.
func ClearDiscarded(s Session) Session {
	s.Discarded = ""
	return s
}

// SetNotice replaces the status-bar notice.
func SetNotice(s Session, n string) Session {
	s.Notice = n
	return s
}
