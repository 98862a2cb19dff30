package state

// TagKind enumerates the status chips shown for the current source.
type TagKind int

const (
	// Stable ordering for display: Template, Generated, Edited, Generating, Discarded, Lines, Chars
	TEMPLATE TagKind = iota
	GENERATED
	EDITED
	GENERATING
	DISCARDED
	LINES
	CHARS
)

// Tag represents a single status chip. Value is used for numeric counters
// (line and character counts). Label carries the diagram type for TEMPLATE.
type Tag struct {
	Kind  TagKind
	Value int
	Label string
}
