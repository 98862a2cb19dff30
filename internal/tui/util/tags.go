package util

import (
	"strings"

	"uml-studio/internal/tui/state"
)

// ComputeTags returns the status chips for the session's current source.
//
// The returned slice preserves a stable order:
//   Template, Generated, Edited, Generating, Discarded, Lines, Chars
//
// Rules:
// - Exactly one origin tag (Template, Generated or Edited) is present.
// - Generating is shown while a generation is pending.
// - Discarded is shown while a manual edit is held for the diff view.
// - Lines and Chars are always included (counters).
func ComputeTags(s state.Session) []state.Tag {
	tags := make([]state.Tag, 0, 6)

	switch s.Origin {
	case state.FromGenerator:
		tags = append(tags, state.Tag{Kind: state.GENERATED})
	case state.FromEditor:
		tags = append(tags, state.Tag{Kind: state.EDITED})
	default:
		tags = append(tags, state.Tag{Kind: state.TEMPLATE, Label: string(s.DiagramType)})
	}

	if s.IsGenerating {
		tags = append(tags, state.Tag{Kind: state.GENERATING})
	}
	if s.Discarded != "" {
		tags = append(tags, state.Tag{Kind: state.DISCARDED})
	}

	tags = append(tags, state.Tag{Kind: state.LINES, Value: lineCount(s.Source)})
	tags = append(tags, state.Tag{Kind: state.CHARS, Value: runeLen(s.Source)})
	return tags
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// runeLen returns the length of s in runes (Unicode code points).
func runeLen(s string) int {
	return len([]rune(s))
}
