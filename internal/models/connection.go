package models

import "fmt"

// Engine identifies a supported database engine
type Engine int

const (
	Postgres Engine = iota
	MySQL
	SQLite
)

// Engines lists the supported engines in selection order
var Engines = []Engine{Postgres, MySQL, SQLite}

func (e Engine) String() string {
	switch e {
	case Postgres:
		return "Postgres"
	case MySQL:
		return "MySQL"
	case SQLite:
		return "SQLite"
	default:
		return fmt.Sprintf("Engine(%d)", int(e))
	}
}

// Scheme returns the URL scheme used in connection strings for e
func (e Engine) Scheme() string {
	switch e {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	default:
		return ""
	}
}

// DefaultPort returns the well-known TCP port of e, 0 for embedded engines
func (e Engine) DefaultPort() int {
	switch e {
	case Postgres:
		return 5432
	case MySQL:
		return 3306
	default:
		return 0
	}
}

// SystemDatabase returns the database the first connection probe targets
func (e Engine) SystemDatabase() string {
	switch e {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	case SQLite:
		return "main"
	default:
		return ""
	}
}

// EngineAt returns the engine at position i of the selection list
func EngineAt(i int) (Engine, bool) {
	if i < 0 || i >= len(Engines) {
		return 0, false
	}
	return Engines[i], true
}

// InputField identifies the active field of the connection form
type InputField int

const (
	UsernameField InputField = iota
	PasswordField
	HostnameField
)

func (f InputField) String() string {
	switch f {
	case UsernameField:
		return "Username"
	case PasswordField:
		return "Password"
	case HostnameField:
		return "Hostname"
	default:
		return "Unknown"
	}
}

// ConnectionInput is the transient state of the connection form
type ConnectionInput struct {
	Username     string
	Password     string
	Hostname     string
	Port         int
	CurrentField InputField
}

// active returns a pointer to the buffer of the current field
func (c *ConnectionInput) active() *string {
	switch c.CurrentField {
	case PasswordField:
		return &c.Password
	case HostnameField:
		return &c.Hostname
	default:
		return &c.Username
	}
}

// AppendRune appends r to the active field
func (c *ConnectionInput) AppendRune(r rune) {
	field := c.active()
	*field += string(r)
}

// Backspace removes the last character from the active field
func (c *ConnectionInput) Backspace() {
	field := c.active()
	*field = TrimLastRune(*field)
}

// Advance moves to the next field. It reports false when the current field
// is the last one, meaning the form is complete.
func (c *ConnectionInput) Advance() bool {
	switch c.CurrentField {
	case UsernameField:
		c.CurrentField = PasswordField
		return true
	case PasswordField:
		c.CurrentField = HostnameField
		return true
	default:
		return false
	}
}

// ConnectionConfig holds everything needed to build a connection string
type ConnectionConfig struct {
	Engine   Engine
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// Config builds a ConnectionConfig targeting database from the form input
func (c ConnectionInput) Config(engine Engine, database string) ConnectionConfig {
	port := c.Port
	if port == 0 {
		port = engine.DefaultPort()
	}
	return ConnectionConfig{
		Engine:   engine,
		Host:     c.Hostname,
		Port:     port,
		Database: database,
		User:     c.Username,
		Password: c.Password,
	}
}

// TrimLastRune drops the final rune of s; it is a no-op on an empty string
func TrimLastRune(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(r[:len(r)-1])
}
