package store

import (
	"context"

	"todos/internal/models"
)

// Store defines the interface for todo persistence operations.
//
// Implementations return models.ErrNotFound (possibly wrapped) when an id does
// not exist and a *models.ValidationError when a task is empty. Every method
// touches at most one record; concurrent updates to the same id resolve as
// last write wins.
type Store interface {
	CreateTodo(ctx context.Context, task string) (*models.Todo, error)
	ListTodos(ctx context.Context) ([]models.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
