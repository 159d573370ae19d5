package driver

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rebeliceyang/lazydb/internal/models"
)

// introspector holds the engine-specific catalog queries of a database/sql
// engine.
type introspector interface {
	listDatabases(ctx context.Context, db *sql.DB) ([]string, error)
	listTables(ctx context.Context, db *sql.DB) ([]string, error)
	describeTable(ctx context.Context, db *sql.DB, table string) ([]models.Column, error)
}

// sqlBackend implements Backend on top of database/sql
type sqlBackend struct {
	db   *sql.DB
	meta introspector
}

func newSQLBackend(db *sql.DB, meta introspector) *sqlBackend {
	return &sqlBackend{db: db, meta: meta}
}

func (b *sqlBackend) Query(ctx context.Context, query string) (*Result, error) {
	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}

		record := make(map[string]any, len(columns))
		for i, name := range columns {
			record[name] = Scalar(values[i])
		}
		result.Records = append(result.Records, record)
	}

	return result, rows.Err()
}

func (b *sqlBackend) Execute(ctx context.Context, query string) (int64, error) {
	res, err := b.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		// Not every statement reports a count
		return 0, nil
	}
	return n, nil
}

func (b *sqlBackend) ListDatabases(ctx context.Context) ([]string, error) {
	return b.meta.listDatabases(ctx, b.db)
}

func (b *sqlBackend) ListTables(ctx context.Context) ([]string, error) {
	return b.meta.listTables(ctx, b.db)
}

func (b *sqlBackend) DescribeTable(ctx context.Context, table string) (*models.TableSchema, error) {
	columns, err := b.meta.describeTable(ctx, b.db, table)
	if err != nil {
		return nil, &SchemaError{Table: table, Err: err}
	}
	if len(columns) == 0 {
		return nil, &SchemaError{Table: table, Err: ErrTableNotFound}
	}
	return &models.TableSchema{TableName: table, Columns: columns}, nil
}

func (b *sqlBackend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// scanNames reads a single string column per row. Extra columns are ignored.
func scanNames(rows *sql.Rows) ([]string, error) {
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var names []string
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		if len(values) > 0 {
			names = append(names, toString(values[0]))
		}
	}
	return names, rows.Err()
}

// toString safely converts a scanned value to string
func toString(v any) string {
	switch s := Scalar(v).(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}
