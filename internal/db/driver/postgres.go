package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rebeliceyang/lazydb/internal/models"
)

const (
	pgListDatabases = `
		SELECT datname
		FROM pg_catalog.pg_database
		WHERE datistemplate = false
		ORDER BY datname`

	pgListTables = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	pgDescribeTable = `
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position`
)

// postgresBackend wraps a single-connection pgxpool
type postgresBackend struct {
	pool *pgxpool.Pool
}

func openPostgres(ctx context.Context, connString string) (*postgresBackend, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	// One active connection per session
	poolConfig.MaxConns = 1
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

func (p *postgresBackend) Query(ctx context.Context, sql string) (*Result, error) {
	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescriptions))
	for i, fd := range fieldDescriptions {
		columns[i] = fd.Name
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
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

func (p *postgresBackend) Execute(ctx context.Context, sql string) (int64, error) {
	tag, err := p.pool.Exec(ctx, sql)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p *postgresBackend) ListDatabases(ctx context.Context) ([]string, error) {
	return p.names(ctx, pgListDatabases)
}

func (p *postgresBackend) ListTables(ctx context.Context) ([]string, error) {
	return p.names(ctx, pgListTables)
}

func (p *postgresBackend) names(ctx context.Context, query string) ([]string, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (p *postgresBackend) DescribeTable(ctx context.Context, table string) (*models.TableSchema, error) {
	rows, err := p.pool.Query(ctx, pgDescribeTable, table)
	if err != nil {
		return nil, &SchemaError{Table: table, Err: err}
	}
	defer rows.Close()

	schema := &models.TableSchema{TableName: table}
	for rows.Next() {
		var (
			col      models.Column
			nullable string
		)
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.Default); err != nil {
			return nil, &SchemaError{Table: table, Err: err}
		}
		col.IsNullable = nullable == "YES"
		schema.Columns = append(schema.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, &SchemaError{Table: table, Err: err}
	}

	if len(schema.Columns) == 0 {
		return nil, &SchemaError{Table: table, Err: ErrTableNotFound}
	}
	return schema, nil
}

func (p *postgresBackend) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
