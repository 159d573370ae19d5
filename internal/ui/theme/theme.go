package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	Foreground lipgloss.Color
	Muted      lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Accent        lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// SQL highlighting
	Keyword  lipgloss.Color
	String   lipgloss.Color
	Number   lipgloss.Color
	Comment  lipgloss.Color
	Operator lipgloss.Color

	// Result table
	TableHeader      lipgloss.Color
	TableRowSelected lipgloss.Color
	Null             lipgloss.Color
}

// Names lists the selectable themes
var Names = []string{"default", "catppuccin"}

// GetTheme returns a theme by name, falling back to the default theme
func GetTheme(name string) Theme {
	switch strings.ToLower(name) {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
