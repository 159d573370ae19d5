package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha palette
// https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Muted:      lipgloss.Color("#6c7086"), // Overlay0

		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Accent:        lipgloss.Color("#cba6f7"), // Mauve

		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		Keyword:  lipgloss.Color("#cba6f7"), // Mauve
		String:   lipgloss.Color("#a6e3a1"), // Green
		Number:   lipgloss.Color("#fab387"), // Peach
		Comment:  lipgloss.Color("#6c7086"), // Overlay0
		Operator: lipgloss.Color("#94e2d5"), // Teal

		TableHeader:      lipgloss.Color("#89b4fa"), // Blue
		TableRowSelected: lipgloss.Color("#313244"), // Surface0
		Null:             lipgloss.Color("#6c7086"), // Overlay0
	}
}
