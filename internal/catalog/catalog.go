// Package catalog holds the built-in PlantUML templates, one per diagram type.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed templates/*.puml
var templateFS embed.FS

// ErrUnknownType is returned by Parse for names outside the fixed set.
var ErrUnknownType = errors.New("unknown diagram type")

// DiagramType identifies one of the supported diagram skeletons.
type DiagramType string

const (
	Class    DiagramType = "class"
	Sequence DiagramType = "sequence"
	Activity DiagramType = "activity"
)

// Types returns every diagram type in picker order.
func Types() []DiagramType {
	return []DiagramType{Class, Sequence, Activity}
}

// Names returns the string form of Types, for flag help and completion.
func Names() []string {
	out := make([]string, 0, 3)
	for _, t := range Types() {
		out = append(out, string(t))
	}
	return out
}

// Valid reports whether t is one of the fixed types.
func (t DiagramType) Valid() bool {
	switch t {
	case Class, Sequence, Activity:
		return true
	default:
		return false
	}
}

// Label is the human-facing name shown in the template picker.
func (t DiagramType) Label() string {
	switch t {
	case Class:
		return "Class Diagram"
	case Sequence:
		return "Sequence Diagram"
	case Activity:
		return "Activity Diagram"
	default:
		return string(t)
	}
}

// Parse converts a user-supplied name (any case, surrounding spaces ignored).
func Parse(name string) (DiagramType, error) {
	t := DiagramType(strings.ToLower(strings.TrimSpace(name)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownType, name, strings.Join(Names(), ", "))
	}
	return t, nil
}

var templates = func() map[DiagramType]string {
	m := make(map[DiagramType]string, 3)
	for _, t := range Types() {
		data, err := templateFS.ReadFile("templates/" + string(t) + ".puml")
		if err != nil {
			panic(fmt.Sprintf("catalog: missing embedded template %s: %v", t, err))
		}
		m[t] = strings.TrimRight(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	}
	return m
}()

// Get returns the canonical source for t. Types outside the fixed set yield "".
func Get(t DiagramType) string {
	return templates[t]
}
