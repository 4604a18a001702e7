// Package mirror keeps a local copy of the todo collection in step with the
// todo service.
//
// The server is authoritative. Creates, toggles and edits change the mirror
// only once the server has answered, and then apply the server's record to
// whatever the mirror holds at that moment. Deletes are the exception: the
// record leaves the mirror before the request is sent and is not restored if
// the request fails. Failures are returned to the caller and reported to an
// Observer; nothing is retried or rolled back.
package mirror

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"todos/internal/models"
)

// API is the network contract of the todo service.
type API interface {
	ListTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, task string) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

// Observer is told about every failed request.
type Observer interface {
	OnError(op string, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(op string, err error)

func (f ObserverFunc) OnError(op string, err error) { f(op, err) }

// LogObserver reports failures to logger.
func LogObserver(logger *log.Logger) Observer {
	return ObserverFunc(func(op string, err error) {
		logger.Error("request failed", "op", op, "err", err)
	})
}

// State is the lifecycle of the mirror.
type State int

const (
	StateLoading State = iota
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Controller owns the mirror. It is safe for concurrent use; mutations are not
// serialized against each other, so their completions land in arrival order.
type Controller struct {
	api      API
	observer Observer

	mu    sync.Mutex
	state State
	// todos is never modified in place; every change installs a new slice,
	// so snapshots can share it.
	todos []models.Todo
}

// New returns a controller in the loading state. A nil observer discards
// failures.
func New(api API, observer Observer) *Controller {
	if observer == nil {
		observer = ObserverFunc(func(string, error) {})
	}
	return &Controller{
		api:      api,
		observer: observer,
		state:    StateLoading,
		todos:    []models.Todo{},
	}
}

// Snapshot returns the current state and collection.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{State: c.state, Todos: c.todos}
}

// Load fetches the collection and replaces the mirror with it. The
// controller is ready afterwards even if the fetch failed, in which case the
// mirror is left as it was.
func (c *Controller) Load(ctx context.Context) error {
	todos, err := c.api.ListTodos(ctx)

	c.mu.Lock()
	c.state = StateReady
	if err == nil {
		c.todos = append([]models.Todo{}, todos...)
	}
	c.mu.Unlock()

	if err != nil {
		return c.fail("load", err)
	}
	return nil
}

// Create sends a new task and prepends the server's record. If a reload has
// already brought the record into the mirror, it is replaced in place instead.
// Blank tasks are rejected without a request.
func (c *Controller) Create(ctx context.Context, task string) (*models.Todo, error) {
	if err := models.ValidateTask(task); err != nil {
		return nil, err
	}

	todo, err := c.api.CreateTodo(ctx, task)
	if err != nil {
		return nil, c.fail("create", err)
	}

	c.update(func(todos []models.Todo) []models.Todo {
		return upsertFront(todos, *todo)
	})
	return todo, nil
}

// Toggle flips the completion flag of the local record id and replaces it
// with the server's answer.
func (c *Controller) Toggle(ctx context.Context, id string) (*models.Todo, error) {
	current, ok := c.Snapshot().Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}

	completed := !current.Completed
	return c.patch(ctx, "toggle", id, models.TodoPatch{Completed: &completed})
}

// Edit replaces the task text of id. Blank text is rejected without a
// request.
func (c *Controller) Edit(ctx context.Context, id, task string) (*models.Todo, error) {
	if err := models.ValidateTask(task); err != nil {
		return nil, err
	}
	return c.patch(ctx, "edit", id, models.TodoPatch{Task: &task})
}

func (c *Controller) patch(ctx context.Context, op, id string, patch models.TodoPatch) (*models.Todo, error) {
	todo, err := c.api.UpdateTodo(ctx, id, patch)
	if err != nil {
		return nil, c.fail(op, err)
	}

	c.update(func(todos []models.Todo) []models.Todo {
		return replace(todos, *todo)
	})
	return todo, nil
}

// Delete removes id from the mirror, then deletes it on the server. The
// local removal stands even if the request fails.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.update(func(todos []models.Todo) []models.Todo {
		return remove(todos, map[string]bool{id: true})
	})

	if err := c.api.DeleteTodo(ctx, id); err != nil {
		return c.fail("delete", err)
	}
	return nil
}

func (c *Controller) update(fn func([]models.Todo) []models.Todo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.todos = fn(c.todos)
}

func (c *Controller) fail(op string, err error) error {
	c.observer.OnError(op, err)
	return err
}
