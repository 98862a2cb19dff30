package render

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"uml-studio/internal/httpx"
)

var (
	// ErrOffline is returned when no server is configured.
	ErrOffline = errors.New("no PlantUML server configured")
	// ErrServer wraps non-2xx responses from the server.
	ErrServer = errors.New("plantuml server error")
	// ErrUnknownFormat is returned by ParseFormat.
	ErrUnknownFormat = errors.New("unknown output format")
)

// Format is a server endpoint kind.
type Format string

const (
	FormatText   Format = "txt" // ASCII art
	FormatSVG    Format = "svg"
	FormatPNG    Format = "png"
	FormatEditor Format = "uml" // server-side editor page, share only
)

// Formats lists the formats Render can fetch.
func Formats() []Format { return []Format{FormatText, FormatSVG, FormatPNG} }

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatSVG, FormatPNG, FormatEditor:
		return f, nil
	case "ascii", "atxt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatForPath maps an export file name to a server format. ok is false for
// names that should receive the raw source (.puml and anything unknown).
func FormatForPath(path string) (f Format, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG, true
	case ".png":
		return FormatPNG, true
	case ".txt", ".atxt":
		return FormatText, true
	default:
		return "", false
	}
}

// Client renders diagrams through a PlantUML server. Responses are cached by
// format and encoded source.
type Client struct {
	base  string
	http  *http.Client
	cache *lru.Cache[string, []byte]
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// DefaultCacheSize is used when NewClient gets a non-positive size.
const DefaultCacheSize = 64

// NewClient returns a client for base (e.g. https://www.plantuml.com/plantuml).
// An empty base yields an offline client whose calls return ErrOffline.
func NewClient(base string, cacheSize int, opts ...Option) (*Client, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("render cache: %w", err)
	}
	c := &Client{base: strings.TrimRight(strings.TrimSpace(base), "/"), cache: cache}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Offline reports whether the client has no server. A nil client is offline.
func (c *Client) Offline() bool { return c == nil || c.base == "" }

// Server returns the configured base URL.
func (c *Client) Server() string {
	if c == nil {
		return ""
	}
	return c.base
}

// URL returns the server URL for source in format f.
func (c *Client) URL(source string, f Format) (string, error) {
	if c.Offline() {
		return "", ErrOffline
	}
	enc, err := Encode(source)
	if err != nil {
		return "", err
	}
	return c.base + "/" + string(f) + "/" + enc, nil
}

// Render fetches source rendered as f.
func (c *Client) Render(ctx context.Context, source string, f Format) ([]byte, error) {
	u, err := c.URL(source, f)
	if err != nil {
		return nil, err
	}
	if b, ok := c.cache.Get(u); ok {
		return b, nil
	}
	b, err := httpx.Get(ctx, c.http, u)
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("%w: %w", ErrServer, err)
		}
		return nil, fmt.Errorf("render %s: %w", f, err)
	}
	c.cache.Add(u, b)
	return b, nil
}
