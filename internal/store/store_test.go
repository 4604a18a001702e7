package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todos/internal/models"
)

// runStoreTests exercises the behavior every Store implementation shares.
func runStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CreateThenList", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.CreateTodo(ctx, "buy milk")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "buy milk", created.Task)
		assert.False(t, created.Completed)

		got, err := s.ListTodos(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, *created, got[0])
	})

	t.Run("ListEmpty", func(t *testing.T) {
		s := newStore(t)

		got, err := s.ListTodos(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("ListInsertionOrder", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, task := range []string{"first", "second", "third"} {
			_, err := s.CreateTodo(ctx, task)
			require.NoError(t, err)
		}

		got, err := s.ListTodos(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "first", got[0].Task)
		assert.Equal(t, "second", got[1].Task)
		assert.Equal(t, "third", got[2].Task)
	})

	t.Run("CreateRejectsEmptyTask", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, task := range []string{"", "   "} {
			_, err := s.CreateTodo(ctx, task)
			assert.True(t, models.IsValidation(err), "task %q: got %v", task, err)
		}

		got, err := s.ListTodos(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("UpdatePreservesUntouchedFields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.CreateTodo(ctx, "A")
		require.NoError(t, err)

		done := true
		updated, err := s.UpdateTodo(ctx, created.ID, models.TodoPatch{Completed: &done})
		require.NoError(t, err)
		assert.Equal(t, models.Todo{ID: created.ID, Task: "A", Completed: true}, *updated)

		text := "B"
		updated, err = s.UpdateTodo(ctx, created.ID, models.TodoPatch{Task: &text})
		require.NoError(t, err)
		assert.Equal(t, models.Todo{ID: created.ID, Task: "B", Completed: true}, *updated)
	})

	t.Run("UpdateEmptyPatchReturnsRecord", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.CreateTodo(ctx, "A")
		require.NoError(t, err)

		got, err := s.UpdateTodo(ctx, created.ID, models.TodoPatch{})
		require.NoError(t, err)
		assert.Equal(t, *created, *got)
	})

	t.Run("UpdateRejectsEmptyTask", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.CreateTodo(ctx, "A")
		require.NoError(t, err)

		empty := " "
		_, err = s.UpdateTodo(ctx, created.ID, models.TodoPatch{Task: &empty})
		assert.True(t, models.IsValidation(err))

		got, err := s.ListTodos(ctx)
		require.NoError(t, err)
		assert.Equal(t, "A", got[0].Task)
	})

	t.Run("DeleteIsPermanent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		keep, err := s.CreateTodo(ctx, "keep")
		require.NoError(t, err)
		gone, err := s.CreateTodo(ctx, "gone")
		require.NoError(t, err)

		require.NoError(t, s.DeleteTodo(ctx, gone.ID))

		got, err := s.ListTodos(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Todo{*keep}, got)

		done := true
		_, err = s.UpdateTodo(ctx, gone.ID, models.TodoPatch{Completed: &done})
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.ErrorIs(t, s.DeleteTodo(ctx, gone.ID), models.ErrNotFound)
	})

	t.Run("UnknownIDs", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, id := range []string{"does-not-exist", "000000000000000000000000"} {
			done := true
			_, err := s.UpdateTodo(ctx, id, models.TodoPatch{Completed: &done})
			assert.ErrorIs(t, err, models.ErrNotFound)
			assert.ErrorIs(t, s.DeleteTodo(ctx, id), models.ErrNotFound)
		}
	})

	t.Run("IDsNotReused", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		seen := make(map[string]bool)
		for i := 0; i < 5; i++ {
			todo, err := s.CreateTodo(ctx, "task")
			require.NoError(t, err)
			assert.False(t, seen[todo.ID], "id %s reused", todo.ID)
			seen[todo.ID] = true
			require.NoError(t, s.DeleteTodo(ctx, todo.ID))
		}
	})

	t.Run("ConcurrentUpdatesLastWriteWins", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.CreateTodo(ctx, "race")
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(v bool) {
				defer wg.Done()
				_, err := s.UpdateTodo(ctx, created.ID, models.TodoPatch{Completed: &v})
				assert.NoError(t, err)
			}(i%2 == 0)
		}
		wg.Wait()

		got, err := s.ListTodos(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("Ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}
