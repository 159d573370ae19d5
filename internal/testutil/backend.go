package testutil

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rebeliceyang/lazydb/internal/db/driver"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// FakeBackend is an in-memory driver.Backend that counts its calls.
type FakeBackend struct {
	mu sync.Mutex

	Database  string
	Databases []string
	Tables    []string
	Schemas   map[string]*models.TableSchema

	// Query results
	Columns  []string
	Records  []any
	Affected int64

	QueryErr    error
	ExecErr     error
	ListErr     error
	DescribeErr error

	Executed []string
	Queried  []string
	Closed   bool

	calls map[string]int
}

// NewFakeBackend creates a fake connected to database
func NewFakeBackend(database string) *FakeBackend {
	return &FakeBackend{
		Database: database,
		Schemas:  make(map[string]*models.TableSchema),
		calls:    make(map[string]int),
	}
}

func (f *FakeBackend) record(op string) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

// Calls returns how many times op was invoked
func (f *FakeBackend) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// IsClosed reports whether Close was called
func (f *FakeBackend) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Closed
}

func (f *FakeBackend) Query(_ context.Context, sql string) (*driver.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("query")
	f.Queried = append(f.Queried, sql)
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	return &driver.Result{Columns: f.Columns, Records: f.Records}, nil
}

func (f *FakeBackend) Execute(_ context.Context, sql string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("execute")
	f.Executed = append(f.Executed, sql)
	if f.ExecErr != nil {
		return 0, f.ExecErr
	}
	return f.Affected, nil
}

func (f *FakeBackend) ListDatabases(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list_databases")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]string(nil), f.Databases...), nil
}

func (f *FakeBackend) ListTables(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list_tables")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]string(nil), f.Tables...), nil
}

func (f *FakeBackend) DescribeTable(_ context.Context, table string) (*models.TableSchema, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("describe")
	if f.DescribeErr != nil {
		return nil, f.DescribeErr
	}
	schema, ok := f.Schemas[table]
	if !ok {
		return nil, &driver.SchemaError{Table: table, Err: driver.ErrTableNotFound}
	}
	return schema, nil
}

func (f *FakeBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// FakeDialer hands out FakeBackends keyed by the database named in the
// connection string.
type FakeDialer struct {
	mu sync.Mutex

	Backends map[string]*FakeBackend

	// Err fails every dial
	Err error
	// Delay postpones every dial; the context still cancels the wait unless
	// IgnoreContext is set.
	Delay         time.Duration
	IgnoreContext bool

	ConnStrings []string
}

// NewFakeDialer creates a dialer serving the given backends
func NewFakeDialer(backends ...*FakeBackend) *FakeDialer {
	d := &FakeDialer{Backends: make(map[string]*FakeBackend)}
	for _, b := range backends {
		d.Backends[b.Database] = b
	}
	return d
}

// Dial implements connection.Dialer
func (d *FakeDialer) Dial(ctx context.Context, engine models.Engine, connString string) (driver.Backend, error) {
	d.mu.Lock()
	d.ConnStrings = append(d.ConnStrings, connString)
	delay, ignore, dialErr := d.Delay, d.IgnoreContext, d.Err
	d.mu.Unlock()

	if delay > 0 {
		if ignore {
			time.Sleep(delay)
		} else {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if dialErr != nil {
		return nil, dialErr
	}

	name := databaseName(engine, connString)

	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.Backends[name]
	if !ok {
		return nil, fmt.Errorf("database %q does not exist", name)
	}
	return b, nil
}

// Dials returns the connection strings seen so far
func (d *FakeDialer) Dials() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ConnStrings...)
}

func databaseName(engine models.Engine, connString string) string {
	if engine == models.SQLite {
		return models.SQLite.SystemDatabase()
	}
	u, err := url.Parse(connString)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
