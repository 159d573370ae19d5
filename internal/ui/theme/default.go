package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		Foreground: lipgloss.Color("252"),
		Muted:      lipgloss.Color("244"),

		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Accent:        lipgloss.Color("170"),

		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		Keyword:  lipgloss.Color("75"),
		String:   lipgloss.Color("180"),
		Number:   lipgloss.Color("150"),
		Comment:  lipgloss.Color("65"),
		Operator: lipgloss.Color("252"),

		TableHeader:      lipgloss.Color("105"),
		TableRowSelected: lipgloss.Color("25"),
		Null:             lipgloss.Color("244"),
	}
}
