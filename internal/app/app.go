package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazydb/internal/config"
	"github.com/rebeliceyang/lazydb/internal/db/connection"
	"github.com/rebeliceyang/lazydb/internal/export"
	"github.com/rebeliceyang/lazydb/internal/history"
	"github.com/rebeliceyang/lazydb/internal/models"
	"github.com/rebeliceyang/lazydb/internal/ui/help"
	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme
	keys   help.KeyMap
	footer *help.Footer

	spinner spinner.Model

	manager *connection.Manager
	history *history.Store
	recall  *history.Recall
	logger  *slog.Logger
	ctx     context.Context

	copyText     func(string) error
	now          func() time.Time
	exportFormat export.Format

	databases []string
	tables    []string
	// schema of the expanded table, nil when none is expanded
	schema    *models.TableSchema
	sqlBuffer string
	result    *models.QueryResult

	// busy is set while a database command is in flight
	busy        bool
	status      string
	statusError bool
}

// Option configures an App
type Option func(*App)

// WithHistory records executed statements in store
func WithHistory(store *history.Store) Option {
	return func(a *App) { a.history = store }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClipboard replaces the function used to copy result rows
func WithClipboard(fn func(string) error) Option {
	return func(a *App) { a.copyText = fn }
}

// WithClock replaces the clock used to name exported files
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithContext sets the context database commands run under
func WithContext(ctx context.Context) Option {
	return func(a *App) { a.ctx = ctx }
}

// New creates a new App driving manager
func New(cfg *config.Config, manager *connection.Manager, opts ...Option) *App {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	th := theme.GetTheme(cfg.UI.Theme)
	keys := help.DefaultKeyMap()

	a := &App{
		state:    models.NewAppState(),
		config:   cfg,
		theme:    th,
		keys:     keys,
		footer:   help.NewFooter(keys, th),
		manager:  manager,
		recall:   history.NewRecall(nil),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:      context.Background(),
		copyText: clipboard.WriteAll,
		now:      time.Now,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(th.Info)),
		),
	}
	for _, opt := range opts {
		opt(a)
	}

	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		a.logger.Warn("falling back to csv export", "error", err)
		format = export.CSV
	}
	a.exportFormat = format

	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.loadHistory()
}

// Snapshot is a read-only copy of the navigation state
type Snapshot struct {
	Screen models.Screen
	Focus  models.Focus

	SelectedEngine   int
	SelectedDatabase int
	SelectedTable    int
	SelectedRow      int
	ExpandedTable    int

	Engine    models.Engine
	Input     models.ConnectionInput
	Databases []string
	Tables    []string

	// Schemas is the schema cache of the current connection
	Schemas        map[string]*models.TableSchema
	ExpandedSchema *models.TableSchema

	SQLBuffer string
	Result    *models.QueryResult

	Status      string
	StatusError bool
	Busy        bool
}

// State returns a snapshot of the navigation state
func (a *App) State() Snapshot {
	return Snapshot{
		Screen:           a.state.Screen,
		Focus:            a.state.Focus,
		SelectedEngine:   a.state.SelectedEngine,
		SelectedDatabase: a.state.SelectedDatabase,
		SelectedTable:    a.state.SelectedTable,
		SelectedRow:      a.state.SelectedRow,
		ExpandedTable:    a.state.ExpandedTable,
		Engine:           a.engine(),
		Input:            a.state.Input,
		Databases:        append([]string(nil), a.databases...),
		Tables:           append([]string(nil), a.tables...),
		Schemas:          a.manager.Schemas(),
		ExpandedSchema:   a.schema,
		SQLBuffer:        a.sqlBuffer,
		Result:           a.result,
		Status:           a.status,
		StatusError:      a.statusError,
		Busy:             a.busy,
	}
}

func (a *App) engine() models.Engine {
	e, _ := models.EngineAt(a.state.SelectedEngine)
	return e
}

// startBusy closes the gate and dispatches cmd with the spinner running
func (a *App) startBusy(cmd tea.Cmd) tea.Cmd {
	a.busy = true
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a *App) setStatus(text string) {
	a.status = text
	a.statusError = false
}

func (a *App) setError(text string) {
	a.status = text
	a.statusError = true
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusError = false
}
