package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazydb/internal/config"
)

// newLogger writes to cfg.File when set. The terminal belongs to the UI, so
// without a file logs are discarded.
func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	f, err := tea.LogToFile(cfg.File, "lazydb")
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	return slog.New(handler), func() { _ = f.Close() }, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
