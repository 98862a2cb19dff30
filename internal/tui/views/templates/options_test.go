package templates

import (
	"testing"

	"uml-studio/internal/catalog"
)

func TestRenderOptions(t *testing.T) {
	rows := RenderOptions(catalog.Sequence)
	want := []string{"  1) Class Diagram", "> 2) Sequence Diagram", "  3) Activity Diagram"}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows", len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d = %q, want %q", i, rows[i], want[i])
		}
	}
}

func TestForKey(t *testing.T) {
	for k, want := range map[string]catalog.DiagramType{"1": catalog.Class, "2": catalog.Sequence, "3": catalog.Activity} {
		got, ok := ForKey(k)
		if !ok || got != want {
			t.Fatalf("ForKey(%q) = %q, %v", k, got, ok)
		}
	}
	for _, k := range []string{"0", "4", "12", "a", ""} {
		if _, ok := ForKey(k); ok {
			t.Fatalf("ForKey(%q) should fail", k)
		}
	}
}
