package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// InMemory opens a store that lives only as long as the process
const InMemory = ":memory:"

// Entry is one executed statement
type Entry struct {
	ID           string
	Engine       string
	Database     string
	Query        string
	ExecutedAt   time.Time
	Duration     time.Duration
	RowsAffected int64
	Success      bool
	ErrorMessage string
}

// Store persists query history in a SQLite file
type Store struct {
	db         *sql.DB
	maxEntries int
}

// NewStore opens (creating if needed) the history database at path.
// maxEntries <= 0 keeps every entry.
func NewStore(path string, maxEntries int) (*Store, error) {
	if path != InMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &Store{db: db, maxEntries: maxEntries}, nil
}

// Add records entry, assigning an ID and timestamp when missing, and drops
// the oldest entries beyond the configured maximum.
func (s *Store) Add(ctx context.Context, entry Entry) (Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO query_history
		(id, engine, database_name, query, executed_at, duration_ms, rows_affected, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Engine,
		entry.Database,
		entry.Query,
		entry.ExecutedAt.UnixNano(),
		entry.Duration.Milliseconds(),
		entry.RowsAffected,
		entry.Success,
		entry.ErrorMessage,
	)
	if err != nil {
		return entry, fmt.Errorf("add history entry: %w", err)
	}

	if s.maxEntries > 0 {
		_, err = s.db.ExecContext(ctx, `
			DELETE FROM query_history
			WHERE id NOT IN (
				SELECT id FROM query_history
				ORDER BY executed_at DESC, rowid DESC
				LIMIT ?
			)`, s.maxEntries)
		if err != nil {
			return entry, fmt.Errorf("trim history: %w", err)
		}
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx, `
		SELECT id, engine, database_name, query, executed_at,
		       duration_ms, rows_affected, success, error_message
		FROM query_history
		ORDER BY executed_at DESC, rowid DESC
		LIMIT ?`, limit)
}

// Search returns up to limit entries whose text contains term, newest first
func (s *Store) Search(ctx context.Context, term string, limit int) ([]Entry, error) {
	return s.query(ctx, `
		SELECT id, engine, database_name, query, executed_at,
		       duration_ms, rows_affected, success, error_message
		FROM query_history
		WHERE query LIKE ?
		ORDER BY executed_at DESC, rowid DESC
		LIMIT ?`, "%"+term+"%", limit)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			executedAt int64
			durationMs int64
		)
		err := rows.Scan(
			&e.ID,
			&e.Engine,
			&e.Database,
			&e.Query,
			&executedAt,
			&durationMs,
			&e.RowsAffected,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.ExecutedAt = time.Unix(0, executedAt)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
