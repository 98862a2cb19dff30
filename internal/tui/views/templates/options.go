package templates

import (
	"fmt"

	"uml-studio/internal/catalog"
)

// RenderOptions returns the template picker rows with their numeric
// shortcuts; the selected type is marked.
func RenderOptions(selected catalog.DiagramType) []string {
	types := catalog.Types()
	out := make([]string, 0, len(types))
	for i, t := range types {
		mark := " "
		if t == selected {
			mark = ">"
		}
		out = append(out, fmt.Sprintf("%s %d) %s", mark, i+1, t.Label()))
	}
	return out
}

// ForKey maps a shortcut ("1".."3") to its diagram type.
func ForKey(k string) (catalog.DiagramType, bool) {
	types := catalog.Types()
	if len(k) != 1 || k[0] < '1' || int(k[0]-'1') >= len(types) {
		return "", false
	}
	return types[k[0]-'1'], true
}
