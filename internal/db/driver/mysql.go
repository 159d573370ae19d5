package driver

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rebeliceyang/lazydb/internal/models"
)

const mysqlDescribeTable = `
	SELECT column_name, column_type, is_nullable, column_default
	FROM information_schema.columns
	WHERE table_schema = DATABASE() AND table_name = ?
	ORDER BY ordinal_position`

// mysqlDSN converts a mysql:// URL into the driver's native DSN
func mysqlDSN(connString string) (string, error) {
	u, err := url.Parse(connString)
	if err != nil {
		return "", fmt.Errorf("parse mysql url: %w", err)
	}
	if u.Scheme != "mysql" {
		return "", fmt.Errorf("unexpected scheme %q in mysql url", u.Scheme)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = net.JoinHostPort(u.Hostname(), "3306")
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func openMySQL(ctx context.Context, connString string) (*sqlBackend, error) {
	dsn, err := mysqlDSN(connString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return newSQLBackend(db, mysqlIntrospector{}), nil
}

type mysqlIntrospector struct{}

func (mysqlIntrospector) listDatabases(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SHOW DATABASES")
	if err != nil {
		return nil, err
	}
	return scanNames(rows)
}

func (mysqlIntrospector) listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, err
	}
	return scanNames(rows)
}

func (mysqlIntrospector) describeTable(ctx context.Context, db *sql.DB, table string) ([]models.Column, error) {
	rows, err := db.QueryContext(ctx, mysqlDescribeTable, table)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []models.Column
	for rows.Next() {
		var (
			col      models.Column
			nullable string
			dflt     sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &dflt); err != nil {
			return nil, err
		}
		col.IsNullable = strings.EqualFold(nullable, "YES")
		if dflt.Valid {
			col.Default = &dflt.String
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}
