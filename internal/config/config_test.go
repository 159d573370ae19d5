package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("lazydb", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
connection:
  connect_timeout: 5s
  default_user: admin
  mysql_port: 3307
ui:
  theme: catppuccin
history:
  max_entries: 50
  path: /tmp/h.db
export:
  format: yaml
`)

	cfg, err := Load(newFlags(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Connection.ConnectTimeout)
	assert.Equal(t, "admin", cfg.Connection.DefaultUser)
	assert.Equal(t, "localhost", cfg.Connection.DefaultHost)
	assert.Equal(t, 3307, cfg.Connection.MySQLPort)
	assert.Equal(t, 5432, cfg.Connection.PostgresPort)
	assert.Equal(t, "catppuccin", cfg.UI.Theme)
	assert.True(t, cfg.UI.ShowHelp)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 50, cfg.History.MaxEntries)
	assert.Equal(t, "/tmp/h.db", cfg.History.Path)
	assert.Equal(t, "yaml", cfg.Export.Format)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
connection:
  connect_timeout: 5s
  default_host: db.internal
ui:
  theme: catppuccin
`)

	cfg, err := Load(newFlags(t,
		"--config", path,
		"--connect-timeout", "750ms",
		"--theme", "default",
		"--no-history",
		"--log-level", "debug",
	))
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.Connection.ConnectTimeout)
	assert.Equal(t, "db.internal", cfg.Connection.DefaultHost)
	assert.Equal(t, "default", cfg.UI.Theme)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := Load(newFlags(t, "--config", path))
	require.NoError(t, err)

	want := GetDefaults()
	assert.Equal(t, want.Connection, cfg.Connection)
	assert.Equal(t, want.UI, cfg.UI)
	assert.Equal(t, want.Export, cfg.Export)
	assert.NotEmpty(t, cfg.History.Path)
}

func TestLoad_BadFile(t *testing.T) {
	path := writeConfig(t, "connection: [unclosed\n")

	_, err := Load(newFlags(t, "--config", path))
	assert.Error(t, err)
}
