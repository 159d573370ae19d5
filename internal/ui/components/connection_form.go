package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazydb/internal/models"
	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

// ConnectionForm renders the username, password and hostname fields
type ConnectionForm struct {
	Engine models.Engine
	Input  models.ConnectionInput
	Error  string
	// Pending is shown while a connect attempt is running
	Pending string

	Width int
	Theme theme.Theme
}

// FieldLabel returns the label of field for engine; SQLite asks for a file
func FieldLabel(engine models.Engine, field models.InputField) string {
	if engine == models.SQLite && field == models.HostnameField {
		return "File"
	}
	return field.String()
}

// View renders the form
func (f *ConnectionForm) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(f.Theme.Accent)
	b.WriteString(titleStyle.Render(fmt.Sprintf("Connect to %s", f.Engine)))
	b.WriteString("\n\n")

	fields := []struct {
		field models.InputField
		value string
	}{
		{models.UsernameField, f.Input.Username},
		{models.PasswordField, strings.Repeat("*", utf8.RuneCountInString(f.Input.Password))},
		{models.HostnameField, f.Input.Hostname},
	}

	activeStyle := lipgloss.NewStyle().Foreground(f.Theme.BorderFocused).Bold(true)
	for _, fl := range fields {
		line := fmt.Sprintf("%-10s %s", FieldLabel(f.Engine, fl.field)+":", fl.value)
		if fl.field == f.Input.CurrentField {
			b.WriteString(activeStyle.Render("> " + line + "_"))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if f.Engine != models.SQLite && f.Input.Port > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(f.Theme.Muted).
			Render(fmt.Sprintf("  %-10s %d", "Port:", f.Input.Port)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case f.Pending != "":
		b.WriteString(lipgloss.NewStyle().Foreground(f.Theme.Info).Render(f.Pending))
	case f.Error != "":
		b.WriteString(lipgloss.NewStyle().Foreground(f.Theme.Error).Render(f.Error))
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(f.Theme.BorderFocused).
		Padding(1, 2)
	if f.Width > 0 {
		style = style.Width(f.Width)
	}
	return style.Render(b.String())
}
