package app

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazydb/internal/db/query"
	"github.com/rebeliceyang/lazydb/internal/export"
	"github.com/rebeliceyang/lazydb/internal/history"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// historyLimit bounds how many statements are recallable in the editor
const historyLimit = 200

func (a *App) connectDefault(engine models.Engine, input models.ConnectionInput) tea.Cmd {
	return func() tea.Msg {
		err := a.manager.ConnectDefault(a.ctx, engine, input)
		return DefaultConnectedMsg{Err: err}
	}
}

func (a *App) loadDatabases() tea.Cmd {
	return func() tea.Msg {
		names, err := a.manager.ListDatabases(a.ctx)
		return DatabasesLoadedMsg{Databases: names, Err: err}
	}
}

func (a *App) connectNamed(database string) tea.Cmd {
	return func() tea.Msg {
		err := a.manager.ConnectNamed(a.ctx, database)
		return NamedConnectedMsg{Database: database, Err: err}
	}
}

func (a *App) loadTables() tea.Cmd {
	return func() tea.Msg {
		names, err := a.manager.ListTables(a.ctx)
		return TablesLoadedMsg{Tables: names, Err: err}
	}
}

func (a *App) describeTable(index int, table string) tea.Cmd {
	return func() tea.Msg {
		schema, err := a.manager.DescribeTable(a.ctx, table)
		return SchemaLoadedMsg{Index: index, Table: table, Schema: schema, Err: err}
	}
}

func (a *App) runQuery(sql string) tea.Cmd {
	return func() tea.Msg {
		result, err := query.Run(a.ctx, a.manager, sql)
		return QueryDoneMsg{SQL: sql, Result: result, Err: err}
	}
}

func (a *App) loadHistory() tea.Cmd {
	if a.history == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := a.history.Recent(a.ctx, historyLimit)
		return HistoryLoadedMsg{Entries: entries, Err: err}
	}
}

// recordHistory stores the outcome of msg. It runs outside the busy gate
// since it never touches the connection.
func (a *App) recordHistory(msg QueryDoneMsg) tea.Cmd {
	if a.history == nil {
		return nil
	}

	entry := history.Entry{
		Engine:  a.engine().String(),
		Query:   msg.SQL,
		Success: msg.Err == nil,
	}
	if conn, ok := a.manager.Active(); ok {
		entry.Database = conn.Config.Database
	}
	if msg.Err != nil {
		entry.ErrorMessage = msg.Err.Error()
	}
	if msg.Result != nil {
		entry.Duration = msg.Result.Duration
		entry.RowsAffected = msg.Result.RowsAffected
		if msg.Result.Message == "" {
			entry.RowsAffected = int64(len(msg.Result.Rows))
		}
	}

	return func() tea.Msg {
		_, err := a.history.Add(a.ctx, entry)
		return HistoryRecordedMsg{Err: err}
	}
}

func (a *App) exportResult() tea.Cmd {
	result := a.result
	format, dir, now := a.exportFormat, a.config.Export.Dir, a.now()
	return func() tea.Msg {
		path, err := export.ToFile(result, format, dir, now)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// rowText renders the selected result row as tab separated values
func rowText(result *models.QueryResult, index int) (string, bool) {
	if result == nil || index < 0 || index >= len(result.Rows) {
		return "", false
	}
	row := result.Rows[index]
	headers := result.Headers()
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = models.FormatValue(row[h])
	}
	return strings.Join(cells, "\t"), true
}

func describeResult(r *models.QueryResult) string {
	if r.Message != "" {
		if r.RowsAffected > 0 {
			return fmt.Sprintf("%s %d row(s) affected.", r.Message, r.RowsAffected)
		}
		return r.Message
	}
	return fmt.Sprintf("%d row(s) in %s", len(r.Rows), r.Duration.Round(time.Millisecond))
}
