package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uml-studio/internal/catalog"
	"uml-studio/internal/generate"
	"uml-studio/internal/render"
	"uml-studio/internal/tui/state"
)

type fakeRenderer struct {
	offline bool
	calls   int
	out     []byte
	err     error
}

func (f *fakeRenderer) Offline() bool { return f.offline }

func (f *fakeRenderer) URL(source string, fm render.Format) (string, error) {
	enc, err := render.Encode(source)
	if err != nil {
		return "", err
	}
	return "http://uml.test/" + string(fm) + "/" + enc, nil
}

func (f *fakeRenderer) Render(_ context.Context, _ string, _ render.Format) ([]byte, error) {
	f.calls++
	return f.out, f.err
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func newTestModel(copied *[]string) model {
	return newModel(Options{
		Type:    catalog.Class,
		NoColor: true,
		Copy: func(s string) error {
			if copied != nil {
				*copied = append(*copied, s)
			}
			return nil
		},
	})
}

func TestNewModelLoadsTemplate(t *testing.T) {
	m := newTestModel(nil)
	assert.Equal(t, catalog.Get(catalog.Class), m.editor.Value())
	assert.Equal(t, state.FromTemplate, m.s.Origin)
	assert.Equal(t, state.CMD, m.s.Mode)
}

func TestTemplateKeySwitchesSource(t *testing.T) {
	m := send(t, newTestModel(nil), key("2"))
	assert.Equal(t, catalog.Sequence, m.s.DiagramType)
	assert.Equal(t, catalog.Get(catalog.Sequence), m.s.Source)
	assert.Equal(t, m.s.Source, m.editor.Value())
}

func TestGenerateFlow(t *testing.T) {
	m := send(t, newTestModel(nil), key("p"), key("user post"), key("esc"))
	assert.Equal(t, "user post", m.s.Description)
	assert.Equal(t, state.CMD, m.s.Mode)

	next, cmd := m.Update(key("g"))
	m = next.(model)
	require.NotNil(t, cmd)
	require.True(t, m.s.IsGenerating)
	id := m.s.Pending
	require.NotZero(t, id)

	// a second request while pending is ignored
	m = send(t, m, key("g"))
	assert.Equal(t, id, m.s.Pending)

	m = send(t, m, generatedMsg{id: id, result: generate.Classify(m.s.Description)})
	assert.False(t, m.s.IsGenerating)
	assert.Equal(t, state.FromGenerator, m.s.Origin)
	assert.Equal(t, catalog.Get(catalog.Class), m.s.Source)
	assert.Equal(t, m.s.Source, m.editor.Value())
}

func TestBlankDescriptionDoesNothing(t *testing.T) {
	m := send(t, newTestModel(nil), key("p"), key("   "), key("esc"))
	next, cmd := m.Update(key("g"))
	m = next.(model)
	assert.Nil(t, cmd)
	assert.False(t, m.s.IsGenerating)
}

func TestCancelledGenerationIsDropped(t *testing.T) {
	m := send(t, newTestModel(nil), key("p"), key("an api"), key("esc"), key("g"))
	id := m.s.Pending
	m = send(t, m, key("x"))
	assert.False(t, m.s.IsGenerating)

	before := m.s.Source
	m = send(t, m, generatedMsg{id: id, result: generate.Classify("an api")})
	assert.Equal(t, before, m.s.Source)
}

func TestEditCancelsPendingGeneration(t *testing.T) {
	m := send(t, newTestModel(nil), key("p"), key("a process flow"), key("esc"), key("g"))
	id := m.s.Pending

	m = send(t, m, key("i"), key("Z"))
	require.Equal(t, state.FromEditor, m.s.Origin)
	assert.False(t, m.s.IsGenerating)
	edited := m.s.Source
	assert.Contains(t, edited, "Z")

	m = send(t, m, key("esc"), generatedMsg{id: id, result: generate.Classify("a process flow")})
	assert.Equal(t, edited, m.s.Source)
}

func TestTemplateAfterEditKeepsDiscarded(t *testing.T) {
	m := send(t, newTestModel(nil), key("i"), key("Q"), key("esc"))
	edited := m.s.Source
	m = send(t, m, key("3"))
	assert.Equal(t, edited, m.s.Discarded)

	m = send(t, m, key("d"))
	assert.Equal(t, modeDiff, m.mode)
	assert.Contains(t, m.View(), "DISCARDED")

	m = send(t, m, key("c"))
	assert.Equal(t, modeMain, m.mode)
	assert.Empty(t, m.s.Discarded)
}

func TestDiffWithoutDiscardedShowsNotice(t *testing.T) {
	m := send(t, newTestModel(nil), key("d"))
	assert.Equal(t, modeMain, m.mode)
	assert.Equal(t, "No discarded edits", m.s.Notice)
}

func TestCopySource(t *testing.T) {
	var copied []string
	m := send(t, newTestModel(&copied), key("y"))
	require.Len(t, copied, 1)
	assert.Equal(t, m.s.Source, copied[0])

	m.copy = func(string) error { return errors.New("no clipboard") }
	m = send(t, m, key("y"))
	assert.Contains(t, m.s.Notice, "Copy failed")
}

func TestTabsAndDarkMode(t *testing.T) {
	m := send(t, newTestModel(nil), key("tab"))
	assert.Equal(t, state.TabPreview, m.s.ActiveTab)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, state.TabEditor, m.s.ActiveTab)

	m = send(t, m, key("D"))
	assert.True(t, m.s.IsDarkMode)
	m = send(t, m, key("D"))
	assert.False(t, m.s.IsDarkMode)
}

func TestPreviewIgnoresStaleRevision(t *testing.T) {
	r := &fakeRenderer{out: []byte("ART")}
	m := newModel(Options{Type: catalog.Class, Renderer: r, NoColor: true, Copy: func(string) error { return nil }})
	m = send(t, m, key("tab"))

	m = send(t, m, previewMsg{rev: m.s.Rev + 5, art: "OLD"})
	assert.Empty(t, m.art)

	m = send(t, m, previewMsg{rev: m.s.Rev, art: "ART"})
	assert.Equal(t, "ART", m.art)
	assert.Contains(t, m.preview.View(), "ART")
}

func TestPreviewFetch(t *testing.T) {
	r := &fakeRenderer{out: []byte("+--+")}
	m := newModel(Options{Type: catalog.Class, Renderer: r, NoColor: true, Copy: func(string) error { return nil }})
	m = send(t, m, key("tab"))

	msg := m.fetchPreview()()
	pm, ok := msg.(previewMsg)
	require.True(t, ok)
	assert.Equal(t, m.s.Rev, pm.rev)
	assert.Equal(t, "+--+", pm.art)
	assert.Equal(t, 1, r.calls)
}

func TestShareOffline(t *testing.T) {
	var copied []string
	m := send(t, newTestModel(&copied), key("s"))
	require.Equal(t, modeShare, m.mode)
	require.Len(t, m.share.items, 1)
	assert.Equal(t, "Encoded", m.share.items[0].Label)
	assert.Contains(t, m.View(), "Offline")

	m = send(t, m, key("enter"))
	require.Len(t, copied, 1)
	dec, err := render.Decode(copied[0])
	require.NoError(t, err)
	assert.Equal(t, m.s.Source, dec)

	m = send(t, m, key("esc"))
	assert.Equal(t, modeMain, m.mode)
}

func TestShareLinksOnline(t *testing.T) {
	links, err := ShareLinks(&fakeRenderer{}, "@startuml\nA -> B\n@enduml")
	require.NoError(t, err)
	require.Len(t, links, 4)
	assert.Equal(t, "Editor", links[0].Label)
	assert.True(t, strings.HasPrefix(links[0].URL, "http://uml.test/uml/"))
	assert.True(t, strings.HasPrefix(links[1].URL, "http://uml.test/svg/"))
}

func TestExportWritesSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "diagram.puml")
	require.NoError(t, Export(context.Background(), nil, path, "@startuml\n@enduml"))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "@startuml\n@enduml\n", string(b))
}

func TestExportRendered(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagram.svg")

	err := Export(context.Background(), nil, path, "x")
	assert.ErrorIs(t, err, ErrExportOffline)

	r := &fakeRenderer{out: []byte("<svg/>")}
	require.NoError(t, Export(context.Background(), r, path, "x"))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(b))

	r.err = render.ErrServer
	assert.ErrorIs(t, Export(context.Background(), r, path, "x"), render.ErrServer)
}

func TestExportPrompt(t *testing.T) {
	dir := t.TempDir()
	m := newModel(Options{Type: catalog.Activity, ExportDir: dir, NoColor: true, Copy: func(string) error { return nil }})
	m = send(t, m, key("e"))
	require.Equal(t, modeExport, m.mode)
	assert.Equal(t, filepath.Join(dir, "activity.puml"), m.export.inputBuf)

	next, cmd := m.Update(key("enter"))
	m = next.(model)
	require.NotNil(t, cmd)
	assert.Equal(t, modeMain, m.mode)

	m = send(t, m, cmd())
	assert.Contains(t, m.s.Notice, "Exported")
	b, err := os.ReadFile(filepath.Join(dir, "activity.puml"))
	require.NoError(t, err)
	assert.Equal(t, m.s.Source+"\n", string(b))
}

func TestHelpOverlay(t *testing.T) {
	m := send(t, newTestModel(nil), key("?"))
	assert.Equal(t, modeHelp, m.mode)
	m = send(t, m, key("z"))
	assert.Equal(t, modeMain, m.mode)
}

func TestViewRendersChrome(t *testing.T) {
	m := send(t, newTestModel(nil), tea.WindowSizeMsg{Width: 140, Height: 40})
	out := m.View()
	assert.Contains(t, out, "UML Studio")
	assert.Contains(t, out, "Templates")
	assert.Contains(t, out, "[Template: class]")
}
