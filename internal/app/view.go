package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazydb/internal/models"
	"github.com/rebeliceyang/lazydb/internal/ui/components"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	editorHeight  = 3
)

// View implements tea.Model
func (a *App) View() string {
	width, height := a.size()

	var body string
	switch a.state.Screen {
	case models.DbTypeSelection:
		body = a.viewDbTypeSelection(width)
	case models.ConnectionInputScreen:
		body = a.viewConnectionInput(width)
	case models.DatabaseSelection:
		body = a.viewDatabaseSelection(width, height)
	case models.TableView:
		body = a.viewTableView(width, height)
	}

	parts := []string{a.topBar(width), body, a.statusLine(width)}
	// with ui.show_help off the footer only appears once ? is pressed
	if a.config.UI.ShowHelp || a.footer.ShowingAll() {
		parts = append(parts, a.footer.View(a.state.Screen, a.state.Focus, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) size() (int, int) {
	w, h := a.state.Width, a.state.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// bodyHeight is what is left after the top bar, status line and footer
func (a *App) bodyHeight(height int) int {
	h := height - 3
	if a.footer.ShowingAll() {
		h -= 3
	}
	if h < 5 {
		h = 5
	}
	return h
}

func (a *App) topBar(width int) string {
	left := "lazydb"
	right := ""
	if conn, ok := a.manager.Active(); ok && a.state.Screen != models.ConnectionInputScreen {
		right = fmt.Sprintf("%s · %s", conn.Config.Engine, conn.Config.Database)
		if conn.Config.Engine != models.SQLite && conn.Config.Host != "" {
			right = fmt.Sprintf("%s@%s · %s", conn.Config.Engine, conn.Config.Host, conn.Config.Database)
		}
	}

	gap := width - 4 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().
		Width(width).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)
}

func (a *App) statusLine(width int) string {
	text := a.status
	if a.busy {
		text = a.spinner.View() + " Working..."
	}
	style := lipgloss.NewStyle().Width(width).MaxHeight(1).Padding(0, 1)
	if a.statusError && !a.busy {
		style = style.Foreground(a.theme.Error)
	} else {
		style = style.Foreground(a.theme.Muted)
	}
	return style.Render(text)
}

func (a *App) viewDbTypeSelection(width int) string {
	items := make([]string, len(models.Engines))
	for i, e := range models.Engines {
		items[i] = e.String()
	}
	list := components.SelectList{
		Title:    "Select database type",
		Items:    items,
		Selected: a.state.SelectedEngine,
		Width:    width - 4,
		Theme:    a.theme,
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(list.View())
}

func (a *App) viewConnectionInput(width int) string {
	form := components.ConnectionForm{
		Engine: a.engine(),
		Input:  a.state.Input,
		Width:  min(60, width-4),
		Theme:  a.theme,
	}
	if a.busy {
		form.Pending = a.spinner.View() + " Connecting..."
	} else if a.statusError {
		form.Error = a.status
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(form.View())
}

func (a *App) viewDatabaseSelection(width, height int) string {
	title := "Databases"
	if conn, ok := a.manager.Active(); ok && conn.Config.Host != "" {
		title = "Databases on " + conn.Config.Host
	}
	empty := "No databases"
	if a.busy {
		empty = "Loading..."
	}
	list := components.SelectList{
		Title:    title,
		Items:    a.databases,
		Selected: a.state.SelectedDatabase,
		Empty:    empty,
		Width:    width - 4,
		Height:   a.bodyHeight(height) - 2,
		Theme:    a.theme,
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(list.View())
}

func (a *App) viewTableView(width, height int) string {
	body := a.bodyHeight(height)

	// each panel adds two border columns and two border rows
	leftWidth := width / 4
	if leftWidth < 20 {
		leftWidth = 20
	}
	rightWidth := width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
	}
	contentHeight := body - 2
	resultHeight := contentHeight - editorHeight - 2

	focus := a.state.Focus

	tables := components.TablesList{
		Tables:   a.tables,
		Selected: a.state.SelectedTable,
		Expanded: a.state.ExpandedTable,
		Schema:   a.schema,
		Width:    leftWidth,
		Height:   contentHeight - 1,
		Focused:  focus == models.TablesList,
		Theme:    a.theme,
	}
	editor := components.SQLEditor{
		Buffer:  a.sqlBuffer,
		Width:   rightWidth,
		Height:  editorHeight - 1,
		Focused: focus == models.SQLEditor,
		Theme:   a.theme,
	}
	result := components.ResultView{
		Result:      a.result,
		SelectedRow: a.state.SelectedRow,
		Width:       rightWidth,
		Height:      resultHeight - 1,
		Focused:     focus == models.QueryResultPane,
		Theme:       a.theme,
	}

	left := components.Panel{
		Title:   "Tables",
		Content: tables.View(),
		Width:   leftWidth,
		Height:  contentHeight,
		Focused: tables.Focused,
		Theme:   a.theme,
	}
	top := components.Panel{
		Title:   "SQL",
		Content: editor.View(),
		Width:   rightWidth,
		Height:  editorHeight,
		Focused: editor.Focused,
		Theme:   a.theme,
	}
	bottom := components.Panel{
		Title:   "Result",
		Content: result.View(),
		Width:   rightWidth,
		Height:  resultHeight,
		Focused: result.Focused,
		Theme:   a.theme,
	}

	right := lipgloss.JoinVertical(lipgloss.Left, top.View(), bottom.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left.View(), right)
}
