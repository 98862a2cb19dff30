package util

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// NoColor returns true if color output should be disabled.
func NoColor(explicit bool) bool {
	if explicit {
		return true
	}
	return os.Getenv("NO_COLOR") != ""
}

// Palette defines a small set of colors used across widgets.
type Palette struct {
	Primary   lipgloss.Color
	Success   lipgloss.Color
	Danger    lipgloss.Color
	Warning   lipgloss.Color
	Muted     lipgloss.Color
	MutedDark lipgloss.Color
	Text      lipgloss.Color
	Surface   lipgloss.Color
}

// DefaultPalette returns the light palette.
func DefaultPalette() Palette {
	return Palette{
		Primary:   lipgloss.Color("#3D6DFF"),
		Success:   lipgloss.Color("#2AA876"),
		Danger:    lipgloss.Color("#D9534F"),
		Warning:   lipgloss.Color("#F0AD4E"),
		Muted:     lipgloss.Color("#6C757D"),
		MutedDark: lipgloss.Color("#5A5A5A"),
		Text:      lipgloss.Color("#111111"),
		Surface:   lipgloss.Color("#F4F4F5"),
	}
}

// DarkPalette returns the palette used when dark mode is on.
func DarkPalette() Palette {
	return Palette{
		Primary:   lipgloss.Color("#7AA2FF"),
		Success:   lipgloss.Color("#4CC38A"),
		Danger:    lipgloss.Color("#FF6B66"),
		Warning:   lipgloss.Color("#FFC15E"),
		Muted:     lipgloss.Color("#9CA3AF"),
		MutedDark: lipgloss.Color("#3F3F46"),
		Text:      lipgloss.Color("#F4F4F5"),
		Surface:   lipgloss.Color("#18181B"),
	}
}

// PaletteFor picks the palette for the given mode.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette()
	}
	return DefaultPalette()
}
