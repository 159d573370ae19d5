package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazydb/internal/db/discovery"
	"github.com/rebeliceyang/lazydb/internal/db/driver"
	"github.com/rebeliceyang/lazydb/internal/history"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		// nothing advances past an unresolved database call
		if a.busy {
			return a, nil
		}
		switch a.state.Screen {
		case models.DbTypeSelection:
			return a.updateDbTypeSelection(msg)
		case models.ConnectionInputScreen:
			return a.updateConnectionInput(msg)
		case models.DatabaseSelection:
			return a.updateDatabaseSelection(msg)
		case models.TableView:
			return a.updateTableView(msg)
		}
		return a, nil

	case DefaultConnectedMsg:
		a.busy = false
		if msg.Err != nil {
			a.setError(a.connectErrorText(msg.Err))
			return a, nil
		}
		a.clearStatus()
		a.state.Screen = models.DatabaseSelection
		a.state.SelectedDatabase = 0
		a.databases = nil
		return a, a.startBusy(a.loadDatabases())

	case DatabasesLoadedMsg:
		a.busy = false
		if msg.Err != nil {
			a.logger.Error("list databases", "error", msg.Err)
			a.setError(msg.Err.Error())
			a.databases = nil
			return a, nil
		}
		a.databases = msg.Databases
		a.state.SelectedDatabase = models.MoveIndex(a.state.SelectedDatabase, 0, len(a.databases))
		return a, nil

	case NamedConnectedMsg:
		a.busy = false
		if msg.Err != nil {
			a.setError(a.connectErrorText(msg.Err))
			return a, nil
		}
		a.clearStatus()
		a.state.Screen = models.TableView
		a.state.Focus = models.TablesList
		a.state.SelectedTable = 0
		a.state.ExpandedTable = models.NoExpansion
		a.state.SelectedRow = 0
		a.tables = nil
		a.schema = nil
		a.result = nil
		return a, a.startBusy(a.loadTables())

	case TablesLoadedMsg:
		a.busy = false
		a.state.SelectedTable = 0
		a.state.ExpandedTable = models.NoExpansion
		a.schema = nil
		if msg.Err != nil {
			a.logger.Error("list tables", "error", msg.Err)
			a.setError(msg.Err.Error())
			a.tables = nil
			return a, nil
		}
		a.tables = msg.Tables
		return a, nil

	case SchemaLoadedMsg:
		a.busy = false
		if msg.Err != nil {
			a.logger.Error("describe table", "table", msg.Table, "error", msg.Err)
			a.setError(msg.Err.Error())
			return a, nil
		}
		a.schema = msg.Schema
		a.state.ExpandedTable = msg.Index
		return a, nil

	case QueryDoneMsg:
		a.busy = false
		if msg.Err != nil {
			a.logger.Error("query failed", "sql", msg.SQL, "error", msg.Err)
			a.setError(msg.Err.Error())
		} else {
			a.result = msg.Result
			a.state.SelectedRow = 0
			a.setStatus(describeResult(msg.Result))
		}
		return a, a.recordHistory(msg)

	case HistoryLoadedMsg:
		if msg.Err != nil {
			a.logger.Warn("load history", "error", msg.Err)
			return a, nil
		}
		a.recall = history.NewRecall(msg.Entries)
		return a, nil

	case HistoryRecordedMsg:
		if msg.Err != nil {
			a.logger.Warn("record history", "error", msg.Err)
		}
		return a, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			a.logger.Error("export result", "error", msg.Err)
			a.setError(msg.Err.Error())
			return a, nil
		}
		a.setStatus("Exported to " + msg.Path)
		return a, nil

	case StatusMsg:
		a.status = msg.Text
		a.statusError = msg.Error
		return a, nil
	}

	return a, nil
}

func (a *App) updateDbTypeSelection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.state.SelectedEngine = models.MoveIndex(a.state.SelectedEngine, -1, len(models.Engines))
	case key.Matches(msg, a.keys.Down):
		a.state.SelectedEngine = models.MoveIndex(a.state.SelectedEngine, 1, len(models.Engines))
	case key.Matches(msg, a.keys.Enter):
		a.state.Input = discovery.Defaults(a.engine(), a.config.Connection)
		a.state.Screen = models.ConnectionInputScreen
		a.clearStatus()
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.footer.ToggleAll()
	}
	return a, nil
}

func (a *App) updateConnectionInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if runes, ok := typedRunes(msg); ok {
		for _, r := range runes {
			a.state.Input.AppendRune(r)
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Back):
		a.state.Screen = models.DbTypeSelection
		a.state.Input = models.ConnectionInput{}
		a.clearStatus()
	case key.Matches(msg, a.keys.Backspace):
		a.state.Input.Backspace()
	case key.Matches(msg, a.keys.Enter):
		if a.state.Input.Advance() {
			return a, nil
		}
		a.clearStatus()
		return a, a.startBusy(a.connectDefault(a.engine(), a.state.Input))
	}
	return a, nil
}

func (a *App) updateDatabaseSelection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.state.SelectedDatabase = models.MoveIndex(a.state.SelectedDatabase, -1, len(a.databases))
	case key.Matches(msg, a.keys.Down):
		a.state.SelectedDatabase = models.MoveIndex(a.state.SelectedDatabase, 1, len(a.databases))
	case key.Matches(msg, a.keys.Enter):
		if len(a.databases) == 0 {
			return a, nil
		}
		name := a.databases[a.state.SelectedDatabase]
		a.clearStatus()
		return a, a.startBusy(a.connectNamed(name))
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.footer.ToggleAll()
	}
	return a, nil
}

func (a *App) updateTableView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Tab) {
		a.state.Focus = a.state.Focus.Next()
		return a, nil
	}

	switch a.state.Focus {
	case models.SQLEditor:
		return a.updateSQLEditor(msg)
	case models.QueryResultPane:
		return a.updateQueryResult(msg)
	default:
		return a.updateTablesList(msg)
	}
}

func (a *App) updateTablesList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.state.SelectedTable = models.MoveIndex(a.state.SelectedTable, -1, len(a.tables))
	case key.Matches(msg, a.keys.Down):
		a.state.SelectedTable = models.MoveIndex(a.state.SelectedTable, 1, len(a.tables))
	case key.Matches(msg, a.keys.Enter):
		if len(a.tables) == 0 {
			return a, nil
		}
		idx := a.state.SelectedTable
		if idx == a.state.ExpandedTable {
			a.state.ExpandedTable = models.NoExpansion
			a.schema = nil
			return a, nil
		}
		return a, a.startBusy(a.describeTable(idx, a.tables[idx]))
	case key.Matches(msg, a.keys.Help):
		a.footer.ToggleAll()
	}
	return a, nil
}

func (a *App) updateSQLEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if runes, ok := typedRunes(msg); ok {
		a.sqlBuffer += string(runes)
		a.recall.Reset()
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Backspace):
		a.sqlBuffer = models.TrimLastRune(a.sqlBuffer)
	case key.Matches(msg, a.keys.Up):
		if q, ok := a.recall.Older(a.sqlBuffer); ok {
			a.sqlBuffer = q
		}
	case key.Matches(msg, a.keys.Down):
		if q, ok := a.recall.Newer(); ok {
			a.sqlBuffer = q
		}
	case key.Matches(msg, a.keys.Enter):
		sql := strings.TrimSpace(a.sqlBuffer)
		if sql == "" {
			return a, nil
		}
		a.sqlBuffer = ""
		a.recall.Push(sql)
		a.clearStatus()
		return a, a.startBusy(a.runQuery(sql))
	}
	return a, nil
}

func (a *App) updateQueryResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := 0
	if a.result != nil {
		rows = len(a.result.Rows)
	}

	switch {
	case key.Matches(msg, a.keys.Up):
		a.state.SelectedRow = models.MoveIndex(a.state.SelectedRow, -1, rows)
	case key.Matches(msg, a.keys.Down):
		a.state.SelectedRow = models.MoveIndex(a.state.SelectedRow, 1, rows)
	case key.Matches(msg, a.keys.Copy):
		text, ok := rowText(a.result, a.state.SelectedRow)
		if !ok {
			a.setError("No row to copy")
			return a, nil
		}
		if err := a.copyText(text); err != nil {
			a.logger.Warn("copy to clipboard", "error", err)
			a.setError(fmt.Sprintf("Copy failed: %v", err))
			return a, nil
		}
		a.setStatus("Row copied to clipboard")
	case key.Matches(msg, a.keys.Export):
		if a.result == nil {
			a.setError("No result to export")
			return a, nil
		}
		return a, a.exportResult()
	case key.Matches(msg, a.keys.Help):
		a.footer.ToggleAll()
	}
	return a, nil
}

// typedRunes returns the characters a key event types, space included
func typedRunes(msg tea.KeyMsg) ([]rune, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return nil, false
		}
		return msg.Runes, true
	case tea.KeySpace:
		return []rune{' '}, true
	}
	return nil, false
}

// connectErrorText prefers the manager's display message for connect errors
func (a *App) connectErrorText(err error) string {
	var connErr *driver.ConnectError
	if errors.As(err, &connErr) {
		if text := a.manager.LastError(); text != "" {
			return text
		}
		return connErr.Error()
	}
	return err.Error()
}
