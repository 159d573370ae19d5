package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazydb/internal/db/driver"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// DefaultConnectTimeout bounds the first connection probe
const DefaultConnectTimeout = 3 * time.Second

// Dialer opens a backend for an engine and connection string
type Dialer func(ctx context.Context, engine models.Engine, connString string) (driver.Backend, error)

// Connection wraps the active backend with metadata
type Connection struct {
	ID          string
	Config      models.ConnectionConfig
	Backend     driver.Backend
	ConnectedAt time.Time
}

// Manager owns the connection slot: at most one active backend, guarded by
// a single mutex that is held for the whole of every operation.
type Manager struct {
	mu      sync.Mutex
	current *Connection

	// credentials of the last successful default connect, reused by ConnectNamed
	credentials *models.ConnectionConfig

	// schema cache for the current connection, keyed by table name
	schemas map[string]*models.TableSchema

	lastError string

	dial    Dialer
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithDialer replaces the dialer used to open backends
func WithDialer(d Dialer) Option {
	return func(m *Manager) { m.dial = d }
}

// WithTimeout sets the bound on ConnectDefault
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a new connection manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		schemas: make(map[string]*models.TableSchema),
		dial:    driver.Open,
		timeout: DefaultConnectTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ConnectDefault connects to the engine's system database using the form
// input. The attempt is bounded by the manager timeout. On failure the slot
// keeps whatever it held and LastError describes the failure.
func (m *Manager) ConnectDefault(ctx context.Context, engine models.Engine, input models.ConnectionInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := input.Config(engine, engine.SystemDatabase())

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	backend, err := m.open(ctx, cfg)
	if err != nil {
		m.lastError = err.Error()
		m.logger.Warn("default connect failed",
			"engine", engine.String(), "host", cfg.Host, "error", err)
		return err
	}

	m.credentials = &cfg
	m.replace(cfg, backend)
	return nil
}

// ConnectNamed connects to database with the engine and credentials of the
// last successful ConnectDefault. It is not time-bounded.
func (m *Manager) ConnectNamed(ctx context.Context, database string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.credentials == nil {
		return fmt.Errorf("connect to %s: %w", database, driver.ErrNoConnection)
	}

	cfg := *m.credentials
	cfg.Database = database

	backend, err := m.open(ctx, cfg)
	if err != nil {
		m.lastError = err.Error()
		m.logger.Warn("connect failed",
			"engine", cfg.Engine.String(), "database", database, "error", err)
		return err
	}

	m.replace(cfg, backend)
	return nil
}

// open dials cfg and gives up as soon as ctx is done, even if the dialer
// does not honour the context. A connection that arrives late is closed.
func (m *Manager) open(ctx context.Context, cfg models.ConnectionConfig) (driver.Backend, error) {
	type dialResult struct {
		backend driver.Backend
		err     error
	}

	done := make(chan dialResult, 1)
	go func() {
		b, err := m.dial(ctx, cfg.Engine, driver.ConnString(cfg))
		done <- dialResult{backend: b, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, &driver.ConnectError{Engine: cfg.Engine, Err: driver.ErrConnectTimeout}
			}
			var connErr *driver.ConnectError
			if !errors.As(r.err, &connErr) {
				r.err = &driver.ConnectError{Engine: cfg.Engine, Err: r.err}
			}
			return nil, r.err
		}
		return r.backend, nil

	case <-ctx.Done():
		go func() {
			if r := <-done; r.backend != nil {
				_ = r.backend.Close()
			}
		}()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &driver.ConnectError{Engine: cfg.Engine, Err: driver.ErrConnectTimeout}
		}
		return nil, &driver.ConnectError{Engine: cfg.Engine, Err: ctx.Err()}
	}
}

// replace installs backend as the only connection, closing the previous one
// and dropping its schema cache. Callers hold mu.
func (m *Manager) replace(cfg models.ConnectionConfig, backend driver.Backend) {
	if m.current != nil {
		if err := m.current.Backend.Close(); err != nil {
			m.logger.Warn("closing previous connection", "id", m.current.ID, "error", err)
		}
	}

	m.current = &Connection{
		ID:          uuid.NewString(),
		Config:      cfg,
		Backend:     backend,
		ConnectedAt: time.Now(),
	}
	m.schemas = make(map[string]*models.TableSchema)
	m.lastError = ""

	m.logger.Info("connected",
		"id", m.current.ID,
		"engine", cfg.Engine.String(),
		"host", cfg.Host,
		"database", cfg.Database)
}

// Do runs fn against the active backend while holding the slot lock.
// It returns driver.ErrNoConnection without calling fn when the slot is empty.
func (m *Manager) Do(fn func(b driver.Backend) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return driver.ErrNoConnection
	}
	return fn(m.current.Backend)
}

// ListDatabases lists the databases visible to the active connection
func (m *Manager) ListDatabases(ctx context.Context) ([]string, error) {
	var names []string
	err := m.Do(func(b driver.Backend) error {
		var err error
		names, err = b.ListDatabases(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	return names, nil
}

// ListTables lists the tables of the active connection's database
func (m *Manager) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	err := m.Do(func(b driver.Backend) error {
		var err error
		names, err = b.ListTables(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

// DescribeTable returns the schema of table, served from the cache when the
// current connection already described it.
func (m *Manager) DescribeTable(ctx context.Context, table string) (*models.TableSchema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, driver.ErrNoConnection
	}
	if schema, ok := m.schemas[table]; ok {
		return schema, nil
	}

	schema, err := m.current.Backend.DescribeTable(ctx, table)
	if err != nil {
		var schemaErr *driver.SchemaError
		if !errors.As(err, &schemaErr) {
			err = &driver.SchemaError{Table: table, Err: err}
		}
		return nil, err
	}

	m.schemas[table] = schema
	return schema, nil
}

// Schemas returns a copy of the schema cache of the current connection
func (m *Manager) Schemas() map[string]*models.TableSchema {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]*models.TableSchema, len(m.schemas))
	for k, v := range m.schemas {
		out[k] = v
	}
	return out
}

// Active returns a copy of the active connection metadata
func (m *Manager) Active() (Connection, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return Connection{}, false
	}
	return *m.current, true
}

// LastError returns the display message of the last failed connect
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

// Close closes and clears the active connection
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	err := m.current.Backend.Close()
	m.current = nil
	m.schemas = make(map[string]*models.TableSchema)
	return err
}
