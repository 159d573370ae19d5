package driver

import (
	"errors"
	"fmt"

	"github.com/rebeliceyang/lazydb/internal/models"
)

var (
	// ErrNoConnection is returned when an operation needs a backend and the
	// connection slot is empty.
	ErrNoConnection = errors.New("no database connection available")

	// ErrConnectTimeout is wrapped by ConnectError when the connect deadline
	// passes before the engine answers.
	ErrConnectTimeout = errors.New("connection timed out")

	// ErrTableNotFound is wrapped by SchemaError when describe finds no columns.
	ErrTableNotFound = errors.New("table not found")
)

// ConnectError reports a failed connect attempt.
type ConnectError struct {
	Engine models.Engine
	Err    error
}

func (e *ConnectError) Error() string {
	if e.Timeout() {
		return "Connection timed out"
	}
	return fmt.Sprintf("Connection error: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Timeout reports whether the attempt ran out of time.
func (e *ConnectError) Timeout() bool {
	return errors.Is(e.Err, ErrConnectTimeout)
}

// QueryError reports a statement the engine rejected.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// SchemaError reports a failed table description.
type SchemaError struct {
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("describe table %s: %v", e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
