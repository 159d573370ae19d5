package query

import (
	"context"
	"strings"
	"time"

	"github.com/rebeliceyang/lazydb/internal/db/driver"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// WriteSuccessMessage is reported for every statement that is not a SELECT
const WriteSuccessMessage = "Non-SELECT query executed successfully."

// Kind tells how a statement is dispatched to the backend
type Kind int

const (
	Read Kind = iota
	Write
)

func (k Kind) String() string {
	if k == Read {
		return "read"
	}
	return "write"
}

// Classify treats a statement as a read when it starts with SELECT,
// ignoring case and surrounding whitespace. Everything else is a write.
func Classify(sql string) Kind {
	s := strings.TrimSpace(sql)
	if len(s) >= 6 && strings.EqualFold(s[:6], "SELECT") {
		return Read
	}
	return Write
}

// Runner gives exclusive access to the active backend
type Runner interface {
	Do(fn func(b driver.Backend) error) error
}

// Run executes sql on the active connection and returns its outcome.
func Run(ctx context.Context, runner Runner, sql string) (*models.QueryResult, error) {
	start := time.Now()
	kind := Classify(sql)

	var result *models.QueryResult
	err := runner.Do(func(b driver.Backend) error {
		if kind == Read {
			res, err := b.Query(ctx, sql)
			if err != nil {
				return &driver.QueryError{SQL: sql, Err: err}
			}
			result = &models.QueryResult{
				Columns: res.Columns,
				Rows:    Normalize(res.Records),
			}
			return nil
		}

		n, err := b.Execute(ctx, sql)
		if err != nil {
			return &driver.QueryError{SQL: sql, Err: err}
		}
		result = &models.QueryResult{
			Rows:         []models.Row{},
			Message:      WriteSuccessMessage,
			RowsAffected: n,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Normalize keeps the map-shaped records and drops anything else. Values are
// reduced to the scalar kinds a Row may hold.
func Normalize(records []any) []models.Row {
	rows := make([]models.Row, 0, len(records))
	for _, rec := range records {
		var m map[string]any
		switch r := rec.(type) {
		case map[string]any:
			m = r
		case models.Row:
			m = r
		default:
			continue
		}

		row := make(models.Row, len(m))
		for k, v := range m {
			row[k] = driver.Scalar(v)
		}
		rows = append(rows, row)
	}
	return rows
}
