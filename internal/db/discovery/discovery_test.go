package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rebeliceyang/lazydb/internal/config"
	"github.com/rebeliceyang/lazydb/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD",
		"MYSQL_HOST", "MYSQL_TCP_PORT", "MYSQL_USER", "MYSQL_PWD",
		SQLiteEnv,
	} {
		t.Setenv(k, "")
	}
	// keep the developer's own .pgpass out of the way
	t.Setenv("PGPASSFILE", filepath.Join(t.TempDir(), "none"))
}

func TestDefaults_ConfigFallback(t *testing.T) {
	clearEnv(t)
	cfg := config.GetDefaults().Connection
	cfg.DefaultUser = "admin"
	cfg.MySQLPort = 3307

	in := Defaults(models.MySQL, cfg)
	assert.Equal(t, "localhost", in.Hostname)
	assert.Equal(t, "admin", in.Username)
	assert.Equal(t, 3307, in.Port)
	assert.Empty(t, in.Password)
	assert.Equal(t, models.UsernameField, in.CurrentField)
}

func TestDefaults_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPORT", "6543")
	t.Setenv("PGUSER", "alice")
	t.Setenv("PGPASSWORD", "secret")
	t.Setenv("MYSQL_TCP_PORT", "not-a-port")
	t.Setenv(SQLiteEnv, "/tmp/app.db")

	cfg := config.GetDefaults().Connection

	pg := Defaults(models.Postgres, cfg)
	assert.Equal(t, models.ConnectionInput{
		Username: "alice", Password: "secret", Hostname: "db.internal", Port: 6543,
	}, pg)

	my := Defaults(models.MySQL, cfg)
	assert.Equal(t, 3306, my.Port)

	lite := Defaults(models.SQLite, cfg)
	assert.Equal(t, "/tmp/app.db", lite.Hostname)
	assert.Zero(t, lite.Port)
}

func TestDefaults_PgPass(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "pgpass")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nlocalhost:*:postgres:bob:from\\:file\n"), 0o600))
	t.Setenv("PGPASSFILE", path)
	t.Setenv("PGUSER", "bob")

	in := Defaults(models.Postgres, config.GetDefaults().Connection)
	assert.Equal(t, "from:file", in.Password)
}

func TestParsePgPass(t *testing.T) {
	dir := t.TempDir()

	entries, err := ParsePgPass(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	path := filepath.Join(dir, "pgpass")
	body := "db:5432:sales:alice:pw1\n" +
		"broken line\n" +
		"*:*:*:*:pw2\n" +
		"db:99999:x:y:z\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	entries, err = ParsePgPass(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "pw1", FindPassword(entries, "db", 5432, "sales", "alice"))
	assert.Equal(t, "pw2", FindPassword(entries, "other", 1, "any", "one"))
	assert.Equal(t, "", FindPassword(entries[:1], "db", 5433, "sales", "alice"))
}
