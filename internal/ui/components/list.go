package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

// SelectList renders a vertical list with one highlighted item
type SelectList struct {
	Title    string
	Items    []string
	Selected int
	// Empty is shown instead of the items when there are none
	Empty string

	Width  int
	Height int
	Theme  theme.Theme
}

// View renders the list, scrolled so the selected item is visible
func (l *SelectList) View() string {
	var b strings.Builder

	if l.Title != "" {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(l.Theme.Accent).Render(l.Title))
		b.WriteString("\n\n")
	}

	if len(l.Items) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(l.Theme.Muted).Italic(true).Render(l.Empty))
		return b.String()
	}

	visible := len(l.Items)
	if l.Height > 0 {
		visible = l.Height
		if l.Title != "" {
			visible -= 2
		}
		if visible < 1 {
			visible = 1
		}
	}
	top, end := window(l.Selected, len(l.Items), visible)

	selectedStyle := lipgloss.NewStyle().
		Background(l.Theme.Selection).
		Foreground(l.Theme.BorderFocused).
		Bold(true)

	for i := top; i < end; i++ {
		label := l.Items[i]
		if l.Width > 4 {
			label = runewidth.Truncate(label, l.Width-2, "…")
		}
		if i == l.Selected {
			b.WriteString(selectedStyle.Render("> " + label))
		} else {
			b.WriteString("  " + label)
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// window returns the [top, end) slice of n items of height visible that
// keeps selected in view.
func window(selected, n, visible int) (int, int) {
	if visible <= 0 || visible >= n {
		return 0, n
	}
	top := 0
	if selected >= visible {
		top = selected - visible + 1
	}
	end := top + visible
	if end > n {
		end = n
	}
	return top, end
}
