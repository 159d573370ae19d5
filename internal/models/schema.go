package models

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Row is one normalized result record keyed by column name. Values are nil,
// bool, int64, float64 or string.
type Row map[string]any

// Column describes one column of a table
type Column struct {
	Name       string
	DataType   string
	IsNullable bool
	Default    *string
}

// TableSchema is the column layout of a table at describe time
type TableSchema struct {
	TableName string
	Columns   []Column
}

// QueryResult is the outcome of a statement submitted from the SQL editor
type QueryResult struct {
	Columns      []string
	Rows         []Row
	Message      string
	RowsAffected int64
	Duration     time.Duration
}

// Headers returns the column headers for r. When the backend did not report
// column order the keys of the first row are used, sorted.
func (r *QueryResult) Headers() []string {
	if r == nil {
		return nil
	}
	if len(r.Columns) > 0 {
		return r.Columns
	}
	if len(r.Rows) == 0 {
		return nil
	}
	headers := make([]string, 0, len(r.Rows[0]))
	for k := range r.Rows[0] {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	return headers
}

// FormatValue renders a row value for display and export. nil is NULL.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
