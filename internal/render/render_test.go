package render

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uml-studio/internal/catalog"
	"uml-studio/internal/httpx"
)

func TestEncodeDecode(t *testing.T) {
	for _, typ := range catalog.Types() {
		src := catalog.Get(typ)
		enc, err := Encode(src)
		require.NoError(t, err)
		assert.Zero(t, len(enc)%4, "encoded length must be a multiple of 4")
		for _, r := range enc {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
		}
		dec, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, src, dec)
	}
}

func TestDecodeAcceptsURL(t *testing.T) {
	enc, err := Encode("@startuml\nA -> B\n@enduml")
	require.NoError(t, err)
	dec, err := Decode("https://www.plantuml.com/plantuml/svg/" + enc)
	require.NoError(t, err)
	assert.Equal(t, "@startuml\nA -> B\n@enduml", dec)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("***")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" SVG ")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	f, err = ParseFormat("ascii")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)
	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatForPath(t *testing.T) {
	f, ok := FormatForPath("out/diagram.PNG")
	assert.True(t, ok)
	assert.Equal(t, FormatPNG, f)
	_, ok = FormatForPath("diagram.puml")
	assert.False(t, ok)
}

func TestOfflineClient(t *testing.T) {
	c, err := NewClient("", 0)
	require.NoError(t, err)
	assert.True(t, c.Offline())
	_, err = c.Render(context.Background(), "@startuml\n@enduml", FormatText)
	assert.ErrorIs(t, err, ErrOffline)

	var nilClient *Client
	assert.True(t, nilClient.Offline())
	_, err = nilClient.URL("x", FormatSVG)
	assert.ErrorIs(t, err, ErrOffline)
}

func TestRenderHitsEndpointAndCaches(t *testing.T) {
	src := catalog.Get(catalog.Sequence)
	enc, err := Encode(src)
	require.NoError(t, err)

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/plantuml/txt/"+enc, r.URL.Path)
		_, _ = w.Write([]byte("ascii art"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/plantuml/", 4, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/plantuml", c.Server())

	for i := 0; i < 3; i++ {
		b, err := c.Render(context.Background(), src, FormatText)
		require.NoError(t, err)
		assert.Equal(t, "ascii art", string(b))
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestRenderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Syntax Error?"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, 0)
	require.NoError(t, err)
	_, err = c.Render(context.Background(), "@startuml\nbroken\n@enduml", FormatSVG)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServer))
	var se *httpx.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Syntax Error?", se.Body)
}

func TestURL(t *testing.T) {
	c, err := NewClient("https://example.test/plantuml", 0)
	require.NoError(t, err)
	u, err := c.URL("@startuml\n@enduml", FormatEditor)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "https://example.test/plantuml/uml/"))
}
