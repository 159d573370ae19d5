package driver

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rebeliceyang/lazydb/internal/models"
)

func openSQLite(ctx context.Context, connString string) (*sqlBackend, error) {
	path := strings.TrimPrefix(connString, "sqlite://")
	if path == "" {
		return nil, fmt.Errorf("sqlite database path is required")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("sqlite file does not exist: %s", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return newSQLBackend(db, sqliteIntrospector{}), nil
}

type sqliteIntrospector struct{}

// listDatabases returns the schema names attached to the connection,
// "main" being the opened file.
func (sqliteIntrospector) listDatabases(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_database_list ORDER BY seq")
	if err != nil {
		return nil, err
	}
	return scanNames(rows)
}

func (sqliteIntrospector) listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	return scanNames(rows)
}

func (sqliteIntrospector) describeTable(ctx context.Context, db *sql.DB, table string) ([]models.Column, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []models.Column
	for rows.Next() {
		var (
			cid     int
			col     models.Column
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &col.Name, &col.DataType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		col.IsNullable = notNull == 0
		if dflt.Valid {
			col.Default = &dflt.String
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}
