package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, max int) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "history.db"), max)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_AddAndRecent(t *testing.T) {
	s := newStore(t, 0)
	ctx := context.Background()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	first, err := s.Add(ctx, Entry{
		Engine: "Postgres", Database: "sales", Query: "SELECT 1",
		ExecutedAt: base, Duration: 12 * time.Millisecond, Success: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = s.Add(ctx, Entry{
		Engine: "Postgres", Database: "sales", Query: "DELETE FROM orders",
		ExecutedAt: base.Add(time.Second), RowsAffected: 4, Success: true,
	})
	require.NoError(t, err)

	_, err = s.Add(ctx, Entry{
		Engine: "Postgres", Database: "sales", Query: "SELEC oops",
		ExecutedAt: base.Add(2 * time.Second), ErrorMessage: "syntax error",
	})
	require.NoError(t, err)

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "SELEC oops", entries[0].Query)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "syntax error", entries[0].ErrorMessage)
	assert.Equal(t, int64(4), entries[1].RowsAffected)
	assert.Equal(t, first.ID, entries[2].ID)
	assert.Equal(t, 12*time.Millisecond, entries[2].Duration)
	assert.True(t, entries[2].ExecutedAt.Equal(base))

	limited, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStore_MaxEntries(t *testing.T) {
	s := newStore(t, 2)
	ctx := context.Background()

	for _, q := range []string{"SELECT 1", "SELECT 2", "SELECT 3"} {
		_, err := s.Add(ctx, Entry{Query: q, Success: true})
		require.NoError(t, err)
	}

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "SELECT 3", entries[0].Query)
	assert.Equal(t, "SELECT 2", entries[1].Query)
}

func TestStore_Search(t *testing.T) {
	s, err := NewStore(InMemory, 0)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	for _, q := range []string{"SELECT * FROM orders", "SELECT * FROM customers", "UPDATE orders SET x = 1"} {
		_, err := s.Add(ctx, Entry{Query: q, Success: true})
		require.NoError(t, err)
	}

	found, err := s.Search(ctx, "orders", 10)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestRecall(t *testing.T) {
	r := NewRecall([]Entry{{Query: "newest"}, {Query: "older"}})

	_, ok := r.Newer()
	assert.False(t, ok)

	q, ok := r.Older("half typed")
	require.True(t, ok)
	assert.Equal(t, "newest", q)

	q, ok = r.Older(q)
	require.True(t, ok)
	assert.Equal(t, "older", q)

	_, ok = r.Older(q)
	assert.False(t, ok, "stops at the oldest entry")

	q, _ = r.Newer()
	assert.Equal(t, "newest", q)
	q, ok = r.Newer()
	require.True(t, ok)
	assert.Equal(t, "half typed", q)

	r.Push("SELECT 42")
	assert.Equal(t, 3, r.Len())
	q, _ = r.Older("")
	assert.Equal(t, "SELECT 42", q)
}
