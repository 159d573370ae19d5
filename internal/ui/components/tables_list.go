package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazydb/internal/models"
	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

// TablesList renders the tables of the current database. The expanded
// table shows its columns underneath.
type TablesList struct {
	Tables   []string
	Selected int
	Expanded int
	Schema   *models.TableSchema

	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme
}

// View renders the list
func (t *TablesList) View() string {
	if len(t.Tables) == 0 {
		return lipgloss.NewStyle().Foreground(t.Theme.Muted).Italic(true).Render("No tables")
	}

	var lines []string
	selectedLine := 0

	selectedStyle := lipgloss.NewStyle().Background(t.Theme.Selection).Bold(true)
	if t.Focused {
		selectedStyle = selectedStyle.Foreground(t.Theme.BorderFocused)
	}
	columnStyle := lipgloss.NewStyle().Foreground(t.Theme.Muted)

	for i, name := range t.Tables {
		marker := "▸ "
		if i == t.Expanded {
			marker = "▾ "
		}
		label := t.truncate(marker+name, 0)
		if i == t.Selected {
			selectedLine = len(lines)
			label = selectedStyle.Render(label)
		}
		lines = append(lines, label)

		if i == t.Expanded && t.Schema != nil {
			for _, col := range t.Schema.Columns {
				lines = append(lines, columnStyle.Render(t.truncate(ColumnLine(col), 4)))
			}
		}
	}

	top, end := window(selectedLine, len(lines), t.Height)
	return strings.Join(lines[top:end], "\n")
}

func (t *TablesList) truncate(s string, indent int) string {
	s = strings.Repeat(" ", indent) + s
	if t.Width > 1 {
		return runewidth.Truncate(s, t.Width, "…")
	}
	return s
}

// ColumnLine describes a column on one line: name, type, nullability and
// default.
func ColumnLine(col models.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", col.Name, col.DataType)
	if !col.IsNullable {
		b.WriteString(" NOT NULL")
	}
	if col.Default != nil {
		fmt.Fprintf(&b, " DEFAULT %s", *col.Default)
	}
	return b.String()
}
