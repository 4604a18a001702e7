package store

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err, "failed to create test store")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		return setupTestDB(t)
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "todos.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_todos", "002_index_todos_completed"}, s.Migrated())
	created, err := s.CreateTodo(ctx, "durable")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	assert.Empty(t, s.Migrated(), "schema is already current")

	got, err := s.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)
}

func TestSQLiteStore_SeqNotReusedAfterDelete(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	first, err := s.CreateTodo(ctx, "first")
	require.NoError(t, err)
	require.NoError(t, s.DeleteTodo(ctx, first.ID))
	_, err = s.CreateTodo(ctx, "second")
	require.NoError(t, err)

	var seq int
	require.NoError(t, s.db.QueryRow(`SELECT seq FROM todos WHERE task = 'second'`).Scan(&seq))
	assert.Equal(t, 2, seq)
}
