package app

import (
	"github.com/rebeliceyang/lazydb/internal/history"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// DefaultConnectedMsg reports the outcome of the first connect
type DefaultConnectedMsg struct {
	Err error
}

// DatabasesLoadedMsg carries the databases of the server
type DatabasesLoadedMsg struct {
	Databases []string
	Err       error
}

// NamedConnectedMsg reports the outcome of connecting to a chosen database
type NamedConnectedMsg struct {
	Database string
	Err      error
}

// TablesLoadedMsg carries the tables of the current database
type TablesLoadedMsg struct {
	Tables []string
	Err    error
}

// SchemaLoadedMsg carries the description of the table at Index
type SchemaLoadedMsg struct {
	Index  int
	Table  string
	Schema *models.TableSchema
	Err    error
}

// QueryDoneMsg carries the outcome of a statement from the editor
type QueryDoneMsg struct {
	SQL    string
	Result *models.QueryResult
	Err    error
}

// HistoryLoadedMsg carries the recent history at startup
type HistoryLoadedMsg struct {
	Entries []history.Entry
	Err     error
}

// HistoryRecordedMsg reports a failed history write; success is silent
type HistoryRecordedMsg struct {
	Err error
}

// ExportDoneMsg reports where the last result was written
type ExportDoneMsg struct {
	Path string
	Err  error
}

// StatusMsg replaces the status line
type StatusMsg struct {
	Text  string
	Error bool
}
