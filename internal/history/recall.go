package history

// Recall walks the history from the SQL editor. Position -1 is the buffer
// the user was typing before recalling anything.
type Recall struct {
	queries []string // newest first
	pos     int
	draft   string
}

// NewRecall creates a cursor over entries, which must be newest first
func NewRecall(entries []Entry) *Recall {
	r := &Recall{pos: -1}
	for _, e := range entries {
		r.queries = append(r.queries, e.Query)
	}
	return r
}

// Push records a newly executed query and resets the cursor
func (r *Recall) Push(query string) {
	r.queries = append([]string{query}, r.queries...)
	r.Reset()
}

// Reset returns to the draft position
func (r *Recall) Reset() {
	r.pos = -1
	r.draft = ""
}

// Len returns the number of recallable queries
func (r *Recall) Len() int { return len(r.queries) }

// Older returns the query before the current one. current is kept as the
// draft when leaving the draft position. ok is false at the oldest entry.
func (r *Recall) Older(current string) (string, bool) {
	if r.pos+1 >= len(r.queries) {
		return "", false
	}
	if r.pos == -1 {
		r.draft = current
	}
	r.pos++
	return r.queries[r.pos], true
}

// Newer returns the query after the current one, or the draft when moving
// past the newest entry. ok is false when already at the draft.
func (r *Recall) Newer() (string, bool) {
	if r.pos < 0 {
		return "", false
	}
	r.pos--
	if r.pos == -1 {
		return r.draft, true
	}
	return r.queries[r.pos], true
}
