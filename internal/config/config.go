package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AppName names the config directory and the default data paths
const AppName = "lazydb"

// Config holds all application configuration
type Config struct {
	Connection ConnectionConfig `mapstructure:"connection"`
	UI         UIConfig         `mapstructure:"ui"`
	History    HistoryConfig    `mapstructure:"history"`
	Log        LogConfig        `mapstructure:"log"`
	Export     ExportConfig     `mapstructure:"export"`
}

type ConnectionConfig struct {
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	DefaultHost    string        `mapstructure:"default_host"`
	DefaultUser    string        `mapstructure:"default_user"`
	PostgresPort   int           `mapstructure:"postgres_port"`
	MySQLPort      int           `mapstructure:"mysql_port"`
}

type UIConfig struct {
	Theme    string `mapstructure:"theme"`
	ShowHelp bool   `mapstructure:"show_help"`
}

type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Persist    bool   `mapstructure:"persist"`
	MaxEntries int    `mapstructure:"max_entries"`
	Path       string `mapstructure:"path"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type ExportConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"connect-timeout": "connection.connect_timeout",
	"host":            "connection.default_host",
	"user":            "connection.default_user",
	"theme":           "ui.theme",
	"history-path":    "history.path",
	"log-file":        "log.file",
	"log-level":       "log.level",
	"export-dir":      "export.dir",
	"export-format":   "export.format",
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Connection: ConnectionConfig{
			ConnectTimeout: 3 * time.Second,
			DefaultHost:    "localhost",
			PostgresPort:   5432,
			MySQLPort:      3306,
		},
		UI: UIConfig{
			Theme:    "default",
			ShowHelp: true,
		},
		History: HistoryConfig{
			Enabled:    true,
			Persist:    true,
			MaxEntries: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Dir:    ".",
			Format: "csv",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("connection.connect_timeout", d.Connection.ConnectTimeout)
	v.SetDefault("connection.default_host", d.Connection.DefaultHost)
	v.SetDefault("connection.default_user", d.Connection.DefaultUser)
	v.SetDefault("connection.postgres_port", d.Connection.PostgresPort)
	v.SetDefault("connection.mysql_port", d.Connection.MySQLPort)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.show_help", d.UI.ShowHelp)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.persist", d.History.Persist)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.format", d.Export.Format)
}

// RegisterFlags adds the flags Load understands to fs
func RegisterFlags(fs *pflag.FlagSet) {
	d := GetDefaults()
	fs.String("config", "", "config file (default $XDG_CONFIG_HOME/lazydb/config.yaml)")
	fs.Duration("connect-timeout", d.Connection.ConnectTimeout, "timeout for the first connection attempt")
	fs.String("host", d.Connection.DefaultHost, "default hostname")
	fs.String("user", d.Connection.DefaultUser, "default username")
	fs.String("theme", d.UI.Theme, "color theme (default, catppuccin)")
	fs.Bool("no-history", false, "do not record executed statements")
	fs.String("history-path", "", "query history database file")
	fs.String("log-file", "", "write debug logs to this file")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	fs.String("export-dir", d.Export.Dir, "directory for exported results")
	fs.String("export-format", d.Export.Format, "export format (csv, json, yaml)")
}

// Load loads configuration from files, overridden by any flags set in fs.
// fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
	}

	if configDir, err := GetConfigPath(); err == nil {
		v.AddConfigPath(configDir)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := bindFlags(v, fs); err != nil {
		return nil, err
	}

	// Reading is optional, the defaults cover every key
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// --no-history inverts history.enabled so it is not bound
	if fs != nil {
		if f := fs.Lookup("no-history"); f != nil && f.Changed && f.Value.String() == "true" {
			cfg.History.Enabled = false
		}
	}

	if cfg.Connection.ConnectTimeout <= 0 {
		cfg.Connection.ConnectTimeout = GetDefaults().Connection.ConnectTimeout
	}
	if cfg.History.Path == "" {
		cfg.History.Path = defaultHistoryPath()
	}

	return &cfg, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

func defaultHistoryPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, AppName, "history.db")
	}
	return filepath.Join(os.TempDir(), AppName+"-history.db")
}
