package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazydb/internal/app"
	"github.com/rebeliceyang/lazydb/internal/config"
	"github.com/rebeliceyang/lazydb/internal/db/connection"
	"github.com/rebeliceyang/lazydb/internal/history"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lazydb",
	Short: "lazydb is a terminal client for Postgres, MySQL and SQLite",
	Long: `lazydb is a keyboard driven terminal client. Pick an engine, enter
credentials, browse databases and tables, inspect schemas and run SQL.

Settings are read from $XDG_CONFIG_HOME/lazydb/config.yaml; flags override them.`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	manager := connection.NewManager(
		connection.WithTimeout(cfg.Connection.ConnectTimeout),
		connection.WithLogger(logger),
	)
	defer func() {
		if err := manager.Close(); err != nil {
			logger.Warn("closing connection", "error", err)
		}
	}()

	opts := []app.Option{app.WithLogger(logger)}
	if store := openHistory(cfg.History, logger); store != nil {
		defer func() { _ = store.Close() }()
		opts = append(opts, app.WithHistory(store))
	}

	logger.Info("starting", "version", version, "theme", cfg.UI.Theme)

	p := tea.NewProgram(app.New(cfg, manager, opts...), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// openHistory returns nil when history is disabled or cannot be opened;
// the client works without it.
func openHistory(cfg config.HistoryConfig, logger *slog.Logger) *history.Store {
	if !cfg.Enabled {
		return nil
	}
	path := cfg.Path
	if !cfg.Persist {
		path = history.InMemory
	}
	store, err := history.NewStore(path, cfg.MaxEntries)
	if err != nil {
		logger.Warn("query history disabled", "path", path, "error", err)
		return nil
	}
	return store
}
