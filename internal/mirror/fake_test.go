package mirror

import (
	"context"
	"fmt"
	"sync"

	"todos/internal/models"
)

// fakeAPI is an in-memory todo service. Hooks run before the matching call
// touches state and may block to control completion order.
type fakeAPI struct {
	mu     sync.Mutex
	todos  []models.Todo
	nextID int
	calls  []string

	listErr      error
	createErr    error
	updateErr    error
	deleteErr    map[string]error
	afterCreate  func(todo models.Todo)
	beforeUpdate func(id string)
	beforeDelete func(id string)
}

func newFakeAPI(todos ...models.Todo) *fakeAPI {
	return &fakeAPI{todos: todos, nextID: len(todos), deleteErr: map[string]error{}}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) serverTodos() []models.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Todo{}, f.todos...)
}

func (f *fakeAPI) ListTodos(ctx context.Context) ([]models.Todo, error) {
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.serverTodos(), nil
}

func (f *fakeAPI) CreateTodo(ctx context.Context, task string) (*models.Todo, error) {
	f.record("create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	f.nextID++
	todo := models.Todo{ID: fmt.Sprintf("id-%d", f.nextID), Task: task}
	f.todos = append(f.todos, todo)
	f.mu.Unlock()

	if f.afterCreate != nil {
		f.afterCreate(todo)
	}
	return &todo, nil
}

func (f *fakeAPI) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	f.record("update " + id)
	if f.beforeUpdate != nil {
		f.beforeUpdate(id)
	}
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.todos {
		if t.ID == id {
			f.todos[i] = patch.Apply(t)
			updated := f.todos[i]
			return &updated, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeAPI) DeleteTodo(ctx context.Context, id string) error {
	f.record("delete " + id)
	if f.beforeDelete != nil {
		f.beforeDelete(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i:i], f.todos[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// recordingObserver collects reported failures.
type recordingObserver struct {
	mu   sync.Mutex
	errs map[string][]error
}

func (o *recordingObserver) OnError(op string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.errs == nil {
		o.errs = map[string][]error{}
	}
	o.errs[op] = append(o.errs[op], err)
}

func (o *recordingObserver) count(op string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.errs[op])
}
