package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uml-studio/internal/catalog"
	"uml-studio/internal/generate"
	"uml-studio/internal/render"
)

// run executes the CLI with an isolated config dir and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range []string{"UMLSTUDIO_SERVER", "UMLSTUDIO_DEFAULT_TYPE", "UMLSTUDIO_GENERATE_DELAY", "UMLSTUDIO_LOG_FILE"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "uml-studio "+Version+"\n", out)
}

func TestGenerateRules(t *testing.T) {
	cases := map[string]catalog.DiagramType{
		"A user writes a post":    catalog.Class,
		"the checkout API":        catalog.Sequence,
		"order approval workflow": catalog.Activity,
	}
	for desc, want := range cases {
		out, err := run(t, "", "generate", "--delay", "0", desc)
		require.NoError(t, err, desc)
		assert.Equal(t, catalog.Get(want)+"\n", out, desc)
	}
}

func TestGenerateFallbackFromStdin(t *testing.T) {
	out, err := run(t, "a library with books", "generate", "--delay", "0")
	require.NoError(t, err)
	assert.Equal(t, generate.Fallback("a library with books")+"\n", out)
}

func TestGenerateBlankPrintsNothing(t *testing.T) {
	out, err := run(t, "", "generate", "--delay", "0", "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTemplateCommand(t *testing.T) {
	out, err := run(t, "", "template")
	require.NoError(t, err)
	assert.Contains(t, out, "class")
	assert.Contains(t, out, "Sequence Diagram")

	out, err = run(t, "", "template", "activity")
	require.NoError(t, err)
	assert.Equal(t, catalog.Get(catalog.Activity)+"\n", out)

	_, err = run(t, "", "template", "gantt")
	assert.ErrorIs(t, err, catalog.ErrUnknownType)
}

func TestEncodeDecode(t *testing.T) {
	src := catalog.Get(catalog.Sequence)
	enc, err := run(t, src, "encode")
	require.NoError(t, err)
	enc = strings.TrimSpace(enc)
	require.NotEmpty(t, enc)

	dec, err := run(t, "", "decode", enc)
	require.NoError(t, err)
	assert.Equal(t, src+"\n", dec)
}

func TestURLOffline(t *testing.T) {
	_, err := run(t, "@startuml\n@enduml", "url", "--offline")
	assert.ErrorIs(t, err, render.ErrOffline)
}

func TestURLWithServer(t *testing.T) {
	out, err := run(t, "@startuml\n@enduml", "url", "--server", "http://uml.test/plantuml/", "-f", "svg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "http://uml.test/plantuml/svg/"), out)
}

func TestRenderToStdoutAndFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/txt/"):
			_, _ = w.Write([]byte("ASCII"))
		case strings.HasPrefix(r.URL.Path, "/svg/"):
			_, _ = w.Write([]byte("<svg/>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := run(t, "@startuml\nA -> B\n@enduml", "render", "--server", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ASCII", out)

	base := filepath.Join(t.TempDir(), "diagram")
	_, err = run(t, "@startuml\nA -> B\n@enduml", "render", "--server", srv.URL, "-f", "txt,svg", "-o", base)
	require.NoError(t, err)
	b, err := os.ReadFile(base + ".svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(b))
	b, err = os.ReadFile(base + ".txt")
	require.NoError(t, err)
	assert.Equal(t, "ASCII", string(b))

	_, err = run(t, "x", "render", "--server", srv.URL, "-f", "png")
	assert.ErrorIs(t, err, render.ErrServer)

	_, err = run(t, "x", "render", "--server", srv.URL, "-f", "txt,svg")
	assert.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	out, err := run(t, "", "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = run(t, "", "config", "init", "--config", path)
	assert.Error(t, err)

	out, err = run(t, "", "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "defaultType:   class")
	assert.Contains(t, out, "generateDelay: 1.5s")

	_, err = run(t, "", "config", "show", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
