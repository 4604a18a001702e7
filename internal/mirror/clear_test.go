package mirror

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todos/internal/client"
	"todos/internal/handlers"
	"todos/internal/models"
	"todos/internal/store"
)

func TestClearCompleted_DeletesConcurrently(t *testing.T) {
	c, api, _ := setupController(t,
		models.Todo{ID: "a", Completed: false},
		models.Todo{ID: "b", Completed: true},
		models.Todo{ID: "c", Completed: true},
	)

	// "b" cannot finish until "c" has been issued, so the two deletes must
	// be in flight together and "c" resolves first.
	cStarted := make(chan struct{})
	api.beforeDelete = func(id string) {
		switch id {
		case "c":
			close(cStarted)
		case "b":
			select {
			case <-cStarted:
			case <-time.After(5 * time.Second):
				t.Error("deletes were not issued concurrently")
			}
		}
	}

	result, err := c.ClearCompleted(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"b", "c"}, result.Deleted)
	assert.Empty(t, result.Failed)
	assert.Equal(t, []string{"a"}, ids(c.Snapshot().Todos))
	assert.Equal(t, []string{"a"}, ids(api.serverTodos()))
}

func TestClearCompleted_NothingCompleted(t *testing.T) {
	c, api, _ := setupController(t, models.Todo{ID: "a"})
	before := api.callCount()

	result, err := c.ClearCompleted(context.Background())

	require.NoError(t, err)
	assert.Empty(t, result.Deleted)
	assert.Equal(t, before, api.callCount())
}

func TestClearCompleted_PartialFailure(t *testing.T) {
	c, api, obs := setupController(t,
		models.Todo{ID: "a", Completed: false},
		models.Todo{ID: "b", Completed: true},
		models.Todo{ID: "c", Completed: true},
	)
	api.deleteErr["c"] = errNetwork

	result, err := c.ClearCompleted(context.Background())

	require.Error(t, err)
	assert.True(t, IsPartialFailure(err))
	assert.ErrorIs(t, err, errNetwork)

	var bulk *BulkDeleteError
	require.ErrorAs(t, err, &bulk)
	assert.Equal(t, 2, bulk.Attempted)
	assert.Contains(t, bulk.Error(), "failed to delete 1 of 2 completed todos: c: connection refused")

	assert.Equal(t, []string{"b"}, result.Deleted)
	assert.Contains(t, result.Failed, "c")
	assert.Equal(t, 1, obs.count("clear-completed"))

	// The local removal is not rolled back; the server still has "c".
	assert.Equal(t, []string{"a"}, ids(c.Snapshot().Todos))
	assert.Equal(t, []string{"a", "c"}, ids(api.serverTodos()))
}

func TestClearCompleted_TotalFailureIsNotPartial(t *testing.T) {
	c, api, _ := setupController(t, models.Todo{ID: "b", Completed: true})
	api.deleteErr["b"] = errNetwork

	_, err := c.ClearCompleted(context.Background())

	require.Error(t, err)
	assert.False(t, IsPartialFailure(err))
}

// TestController_AgainstService drives the controller through the HTTP client
// and the real handlers.
func TestController_AgainstService(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv := httptest.NewServer(handlers.NewRouter(handlers.New(s, log.New(io.Discard)), prometheus.NewRegistry()))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	c := New(client.New(srv.URL, srv.Client()), nil)
	require.NoError(t, c.Load(ctx))

	var created []*models.Todo
	for _, task := range []string{"one", "two", "three"} {
		todo, err := c.Create(ctx, task)
		require.NoError(t, err)
		created = append(created, todo)
	}
	assert.Equal(t, []string{"three", "two", "one"}, tasks(c.Snapshot().Todos))

	_, err = c.Toggle(ctx, created[0].ID)
	require.NoError(t, err)
	_, err = c.Toggle(ctx, created[2].ID)
	require.NoError(t, err)

	_, err = c.ClearCompleted(ctx)
	require.NoError(t, err)

	remaining, err := s.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "two", remaining[0].Task)
	assert.False(t, remaining[0].Completed)

	// A fresh load shows the server's insertion order.
	_, err = c.Create(ctx, "four")
	require.NoError(t, err)
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, []string{"two", "four"}, tasks(c.Snapshot().Todos))

	err = c.Delete(ctx, created[0].ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func tasks(todos []models.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.Task)
	}
	return out
}
