package mirror

import "todos/internal/models"

// Snapshot is an immutable view of the mirror. Callers must not modify Todos.
type Snapshot struct {
	State State
	Todos []models.Todo
}

// View returns the todos selected by filter in mirror order.
func (s Snapshot) View(filter models.Filter) []models.Todo {
	return filter.Apply(s.Todos)
}

// Counts returns the number of active and completed todos.
func (s Snapshot) Counts() (active, completed int) {
	for _, t := range s.Todos {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}

// Find returns the todo with the given id.
func (s Snapshot) Find(id string) (models.Todo, bool) {
	for _, t := range s.Todos {
		if t.ID == id {
			return t, true
		}
	}
	return models.Todo{}, false
}

// upsertFront prepends t unless the mirror already holds its id, in which case
// the existing entry is replaced where it stands.
func upsertFront(todos []models.Todo, t models.Todo) []models.Todo {
	if _, ok := (Snapshot{Todos: todos}).Find(t.ID); ok {
		return replace(todos, t)
	}
	out := make([]models.Todo, 0, len(todos)+1)
	out = append(out, t)
	return append(out, todos...)
}

// replace swaps in t for the record with the same id. A record that has left
// the mirror in the meantime stays gone.
func replace(todos []models.Todo, t models.Todo) []models.Todo {
	out := make([]models.Todo, len(todos))
	copy(out, todos)
	for i := range out {
		if out[i].ID == t.ID {
			out[i] = t
		}
	}
	return out
}

func remove(todos []models.Todo, ids map[string]bool) []models.Todo {
	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if !ids[t.ID] {
			out = append(out, t)
		}
	}
	return out
}
