package help

import (
	bubbleshelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazydb/internal/models"
	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

// KeyMap holds every key binding of the client
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	Tab       key.Binding
	Backspace key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Export    key.Binding
	Copy      key.Binding
	Help      key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy row")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

// Bindings returns the keys that act on screen with focus, in display order
func (k KeyMap) Bindings(screen models.Screen, focus models.Focus) []key.Binding {
	switch screen {
	case models.DbTypeSelection:
		return []key.Binding{
			withHelp(k.Up, "↑/↓", "choose engine"), k.Down,
			withHelp(k.Enter, "enter", "continue"), k.Quit, k.Help,
		}
	case models.ConnectionInputScreen:
		return []key.Binding{
			withHelp(k.Enter, "enter", "next field / connect"), k.Backspace,
			withHelp(k.Back, "esc", "change engine"), k.ForceQuit,
		}
	case models.DatabaseSelection:
		return []key.Binding{
			withHelp(k.Up, "↑/↓", "choose database"), k.Down,
			withHelp(k.Enter, "enter", "open"), k.Quit, k.Help,
		}
	}

	switch focus {
	case models.SQLEditor:
		return []key.Binding{
			withHelp(k.Enter, "enter", "run"),
			withHelp(k.Up, "↑/↓", "history"), k.Down,
			k.Tab, k.ForceQuit,
		}
	case models.QueryResultPane:
		return []key.Binding{
			withHelp(k.Up, "↑/↓", "move row"), k.Down,
			k.Copy, k.Export, k.Tab, k.ForceQuit, k.Help,
		}
	default:
		return []key.Binding{
			withHelp(k.Up, "↑/↓", "choose table"), k.Down,
			withHelp(k.Enter, "enter", "expand/collapse"),
			k.Tab, k.ForceQuit, k.Help,
		}
	}
}

// withHelp returns b with a different help text. A binding without a
// description is left out of the rendered help.
func withHelp(b key.Binding, keys, desc string) key.Binding {
	b.SetHelp(keys, desc)
	return b
}

// contextKeys adapts a screen's bindings to the bubbles help model
type contextKeys struct {
	bindings []key.Binding
}

func (c contextKeys) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(c.bindings))
	for _, b := range c.bindings {
		// ↓ is folded into the ↑/↓ entry
		if b.Help().Key == "↓" {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (c contextKeys) FullHelp() [][]key.Binding {
	short := c.ShortHelp()
	var cols [][]key.Binding
	for i := 0; i < len(short); i += 3 {
		end := i + 3
		if end > len(short) {
			end = len(short)
		}
		cols = append(cols, short[i:end])
	}
	return cols
}

// Footer renders the key help line at the bottom of the screen
type Footer struct {
	Keys  KeyMap
	model bubbleshelp.Model
}

// NewFooter creates a footer styled with th
func NewFooter(keys KeyMap, th theme.Theme) *Footer {
	m := bubbleshelp.New()
	m.Styles.ShortKey = lipgloss.NewStyle().Foreground(th.Warning)
	m.Styles.ShortDesc = lipgloss.NewStyle().Foreground(th.Muted)
	m.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(th.Border)
	m.Styles.FullKey = m.Styles.ShortKey
	m.Styles.FullDesc = m.Styles.ShortDesc
	m.Styles.FullSeparator = m.Styles.ShortSeparator
	return &Footer{Keys: keys, model: m}
}

// ToggleAll switches between the one-line and the full help
func (f *Footer) ToggleAll() {
	f.model.ShowAll = !f.model.ShowAll
}

// ShowingAll reports whether the full help is shown
func (f *Footer) ShowingAll() bool {
	return f.model.ShowAll
}

// View renders the help for screen and focus within width
func (f *Footer) View(screen models.Screen, focus models.Focus, width int) string {
	f.model.Width = width
	return f.model.View(contextKeys{bindings: f.Keys.Bindings(screen, focus)})
}
