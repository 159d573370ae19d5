package discovery

import (
	"os"
	"strconv"

	"github.com/rebeliceyang/lazydb/internal/config"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// envKeys names the client environment variables an engine honours
type envKeys struct {
	host, port, user, password string
}

var engineEnv = map[models.Engine]envKeys{
	models.Postgres: {host: "PGHOST", port: "PGPORT", user: "PGUSER", password: "PGPASSWORD"},
	models.MySQL:    {host: "MYSQL_HOST", port: "MYSQL_TCP_PORT", user: "MYSQL_USER", password: "MYSQL_PWD"},
}

// SQLiteEnv holds the path of the SQLite file to pre-fill
const SQLiteEnv = "SQLITE_DATABASE"

// Defaults returns the connection form pre-filled for engine. The engine's
// client environment variables win over the configured defaults. For
// Postgres a missing password is looked up in the .pgpass file.
func Defaults(engine models.Engine, cfg config.ConnectionConfig) models.ConnectionInput {
	if engine == models.SQLite {
		return models.ConnectionInput{Hostname: os.Getenv(SQLiteEnv)}
	}

	in := models.ConnectionInput{
		Hostname: cfg.DefaultHost,
		Username: cfg.DefaultUser,
		Port:     configuredPort(engine, cfg),
	}

	keys, ok := engineEnv[engine]
	if !ok {
		return in
	}
	if v := os.Getenv(keys.host); v != "" {
		in.Hostname = v
	}
	if v := os.Getenv(keys.user); v != "" {
		in.Username = v
	}
	if p, ok := parsePort(os.Getenv(keys.port)); ok {
		in.Port = p
	}
	in.Password = os.Getenv(keys.password)

	if engine == models.Postgres && in.Password == "" {
		entries, err := ParsePgPass(PgPassPath())
		if err == nil {
			host := in.Hostname
			if host == "" {
				host = "localhost"
			}
			in.Password = FindPassword(entries, host, in.Port, engine.SystemDatabase(), in.Username)
		}
	}
	return in
}

func configuredPort(engine models.Engine, cfg config.ConnectionConfig) int {
	switch engine {
	case models.Postgres:
		if cfg.PostgresPort > 0 {
			return cfg.PostgresPort
		}
	case models.MySQL:
		if cfg.MySQLPort > 0 {
			return cfg.MySQLPort
		}
	}
	return engine.DefaultPort()
}

func parsePort(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	p, err := strconv.Atoi(s)
	if err != nil || p <= 0 || p > 65535 {
		return 0, false
	}
	return p, true
}
