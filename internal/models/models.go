package models

// Screen identifies which screen of the client is active
type Screen int

const (
	DbTypeSelection Screen = iota
	ConnectionInputScreen
	DatabaseSelection
	TableView
)

func (s Screen) String() string {
	switch s {
	case DbTypeSelection:
		return "db-type-selection"
	case ConnectionInputScreen:
		return "connection-input"
	case DatabaseSelection:
		return "database-selection"
	case TableView:
		return "table-view"
	default:
		return "unknown"
	}
}

// Focus identifies which pane of the table view receives keyboard input
type Focus int

const (
	TablesList Focus = iota
	SQLEditor
	QueryResultPane
)

// Next returns the pane that follows f in the Tab cycle
func (f Focus) Next() Focus {
	switch f {
	case TablesList:
		return SQLEditor
	case SQLEditor:
		return QueryResultPane
	default:
		return TablesList
	}
}

func (f Focus) String() string {
	switch f {
	case TablesList:
		return "tables"
	case SQLEditor:
		return "editor"
	case QueryResultPane:
		return "result"
	default:
		return "unknown"
	}
}

// NoExpansion marks that no table in the tables list is expanded
const NoExpansion = -1

// AppState holds the navigation state of the application
type AppState struct {
	Width  int
	Height int

	Screen Screen
	Focus  Focus

	// Selection indices
	SelectedEngine   int
	SelectedDatabase int
	SelectedTable    int
	SelectedRow      int

	// Index into the table list of the expanded table, NoExpansion if none
	ExpandedTable int

	Input ConnectionInput
}

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:         80,
		Height:        24,
		Screen:        DbTypeSelection,
		Focus:         TablesList,
		ExpandedTable: NoExpansion,
	}
}

// MoveIndex moves idx by delta and clamps the result to [0, n-1].
// An empty list always yields 0.
func MoveIndex(idx, delta, n int) int {
	if n <= 0 {
		return 0
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}
